// Package store keeps birth records and chart artifacts in process memory.
// Nothing is persisted; contents are lost on restart.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/prof-ramos/astromap/internal/domain"
)

// Memory is a mutex-guarded in-memory store. The zero value is not usable;
// construct one with New.
type Memory struct {
	clock clockwork.Clock
	newID func() string

	mu         sync.RWMutex
	births     map[string]domain.BirthRecord
	charts     map[string]domain.ChartArtifact
	chartOrder []string // chart ids in insertion order
}

// Option configures a Memory store.
type Option func(*Memory)

// WithClock sets the time source for createdAt stamps.
func WithClock(c clockwork.Clock) Option {
	return func(m *Memory) { m.clock = c }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Memory) { m.newID = fn }
}

// New creates an empty store.
func New(opts ...Option) *Memory {
	m := &Memory{
		clock:  clockwork.NewRealClock(),
		newID:  uuid.NewString,
		births: make(map[string]domain.BirthRecord),
		charts: make(map[string]domain.ChartArtifact),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateBirthRecord stores the input under a fresh id and returns the stored copy.
func (m *Memory) CreateBirthRecord(in domain.BirthInput) domain.BirthRecord {
	rec := domain.BirthRecord{
		ID:        m.newID(),
		Name:      in.Name,
		BirthDate: in.BirthDate,
		BirthTime: in.BirthTime,
		BirthCity: in.BirthCity,
		Timezone:  in.Timezone,
		Latitude:  cloneFloat(in.Latitude),
		Longitude: cloneFloat(in.Longitude),
		CreatedAt: m.clock.Now().UTC(),
	}
	if rec.Timezone == "" {
		rec.Timezone = domain.DefaultTimezone
	}

	m.mu.Lock()
	m.births[rec.ID] = rec
	m.mu.Unlock()

	return copyRecord(rec)
}

// GetBirthRecord returns domain.ErrBirthRecordNotFound for unknown ids.
func (m *Memory) GetBirthRecord(id string) (domain.BirthRecord, error) {
	m.mu.RLock()
	rec, ok := m.births[id]
	m.mu.RUnlock()

	if !ok {
		return domain.BirthRecord{}, domain.ErrBirthRecordNotFound
	}
	return copyRecord(rec), nil
}

// CreateChartArtifact stores the input under a fresh id and returns the stored copy.
// The birth record reference is not checked.
func (m *Memory) CreateChartArtifact(in domain.ChartArtifactInput) domain.ChartArtifact {
	a := domain.ChartArtifact{
		ID:            m.newID(),
		BirthRecordID: in.BirthRecordID,
		SVG:           in.SVG,
		ChartData:     in.ChartData,
		SunSign:       in.SunSign,
		MoonSign:      in.MoonSign,
		RisingSign:    in.RisingSign,
		CreatedAt:     m.clock.Now().UTC(),
	}

	m.mu.Lock()
	if _, exists := m.charts[a.ID]; !exists {
		m.chartOrder = append(m.chartOrder, a.ID)
	}
	m.charts[a.ID] = a
	m.mu.Unlock()

	return a
}

// GetChartArtifact returns domain.ErrChartNotFound for unknown ids.
func (m *Memory) GetChartArtifact(id string) (domain.ChartArtifact, error) {
	m.mu.RLock()
	a, ok := m.charts[id]
	m.mu.RUnlock()

	if !ok {
		return domain.ChartArtifact{}, domain.ErrChartNotFound
	}
	return a, nil
}

// GetChartArtifactByBirthRecordID returns the earliest stored artifact that
// references birthRecordID.
func (m *Memory) GetChartArtifactByBirthRecordID(birthRecordID string) (domain.ChartArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.chartOrder {
		if a := m.charts[id]; a.BirthRecordID == birthRecordID {
			return a, nil
		}
	}
	return domain.ChartArtifact{}, domain.ErrChartNotFound
}

// Counts reports how many birth records and chart artifacts are stored.
func (m *Memory) Counts() (births, charts int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.births), len(m.charts)
}

func copyRecord(rec domain.BirthRecord) domain.BirthRecord {
	rec.Latitude = cloneFloat(rec.Latitude)
	rec.Longitude = cloneFloat(rec.Longitude)
	return rec
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
