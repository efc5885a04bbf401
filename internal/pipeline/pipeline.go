// Package pipeline orchestrates chart generation: validation, enrichment,
// upstream computation, rendering, storage, and event publication.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
	"github.com/prof-ramos/astromap/internal/render"
)

// publishTimeout bounds the best-effort event publication of one chart.
const publishTimeout = 3 * time.Second

// Store persists birth records and chart artifacts.
type Store interface {
	CreateBirthRecord(in domain.BirthInput) domain.BirthRecord
	GetBirthRecord(id string) (domain.BirthRecord, error)
	CreateChartArtifact(in domain.ChartArtifactInput) domain.ChartArtifact
	GetChartArtifact(id string) (domain.ChartArtifact, error)
}

// EventPublisher announces generated charts to downstream consumers.
type EventPublisher interface {
	PublishChart(ctx context.Context, a domain.ChartArtifact) error
}

// Pipeline turns birth data into stored, rendered charts and serves them back.
type Pipeline struct {
	computer  domain.ChartComputer
	store     Store
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher may be nil, in which case no events are published.
func New(c domain.ChartComputer, s Store, pub EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		computer:  c,
		store:     s,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate validates in, stores it as a birth record, computes and renders the
// chart, and stores the result. Invalid input returns a *domain.ValidationError
// and stores nothing. An upstream failure returns an error wrapping
// domain.ErrUpstream; the birth record is kept but no artifact is stored.
func (p *Pipeline) Generate(ctx context.Context, in domain.BirthInput) (domain.ChartArtifact, error) {
	if err := domain.ValidateBirthInput(in); err != nil {
		p.metrics.GenerationErrors.WithLabelValues("validation").Inc()
		return domain.ChartArtifact{}, err
	}

	in = domain.EnrichWithCity(in)
	rec := p.store.CreateBirthRecord(in)
	p.metrics.RecordsStored.WithLabelValues("birth").Inc()

	data, err := p.computer.ComputeChart(ctx, domain.NewChartRequest(rec))
	if err != nil {
		p.metrics.GenerationErrors.WithLabelValues("upstream").Inc()
		p.logger.Error("chart computation failed", "birth_record_id", rec.ID, "error", err)
		if !errors.Is(err, domain.ErrUpstream) {
			err = fmt.Errorf("%w: %w", domain.ErrUpstream, err)
		}
		return domain.ChartArtifact{}, fmt.Errorf("compute chart for birth record %s: %w", rec.ID, err)
	}

	chartJSON, err := json.Marshal(data)
	if err != nil {
		p.metrics.GenerationErrors.WithLabelValues("internal").Inc()
		return domain.ChartArtifact{}, fmt.Errorf("encode chart data: %w", err)
	}

	artifact := p.store.CreateChartArtifact(domain.ChartArtifactInput{
		BirthRecordID: rec.ID,
		SVG:           render.SVG(data),
		ChartData:     string(chartJSON),
		SunSign:       data.SunSign,
		MoonSign:      data.MoonSign,
		RisingSign:    data.RisingSign,
	})
	p.metrics.RecordsStored.WithLabelValues("chart").Inc()
	p.metrics.ChartsGenerated.Inc()

	p.publish(ctx, artifact)

	p.logger.Info("chart generated",
		"chart_id", artifact.ID,
		"birth_record_id", rec.ID,
		"sun_sign", artifact.SunSign,
		"planets", len(data.Planets),
	)
	return artifact, nil
}

// publish sends the chart event. Failures are logged and never reach the caller.
func (p *Pipeline) publish(ctx context.Context, a domain.ChartArtifact) {
	if p.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.publisher.PublishChart(ctx, a); err != nil {
		p.logger.Warn("chart event publish failed", "chart_id", a.ID, "error", err)
	}
}

// SVG returns the stored markup of a chart artifact.
func (p *Pipeline) SVG(chartID string) (string, error) {
	a, err := p.store.GetChartArtifact(chartID)
	p.countDownload("svg", err)
	if err != nil {
		return "", err
	}
	return a.SVG, nil
}

// Report builds the textual report of a chart artifact and its birth record.
// A missing artifact returns domain.ErrChartNotFound; a dangling birth record
// reference returns domain.ErrBirthRecordNotFound.
func (p *Pipeline) Report(chartID string) ([]byte, error) {
	report, err := p.buildReport(chartID)
	p.countDownload("pdf", err)
	return report, err
}

func (p *Pipeline) buildReport(chartID string) ([]byte, error) {
	a, err := p.store.GetChartArtifact(chartID)
	if err != nil {
		return nil, err
	}
	rec, err := p.store.GetBirthRecord(a.BirthRecordID)
	if err != nil {
		return nil, err
	}

	var data domain.ParsedChartData
	if err := json.Unmarshal([]byte(a.ChartData), &data); err != nil {
		return nil, fmt.Errorf("decode chart data of %s: %w", chartID, err)
	}
	return []byte(domain.BuildReport(rec, data)), nil
}

func (p *Pipeline) countDownload(format string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	p.metrics.Downloads.WithLabelValues(format, outcome).Inc()
}

// CheckReadiness reports whether charts can currently be computed.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if rc, ok := p.computer.(sharedobs.ReadinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
