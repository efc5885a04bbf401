package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
	"github.com/prof-ramos/astromap/internal/pipeline"
	"github.com/prof-ramos/astromap/internal/store"
)

var _ sharedobs.ReadinessChecker = (*pipeline.Pipeline)(nil)

// --- mocks ---

type mockComputer struct {
	mu       sync.Mutex
	requests []domain.ChartRequest
	data     domain.ParsedChartData
	err      error
	ready    error
}

func (m *mockComputer) ComputeChart(_ context.Context, req domain.ChartRequest) (domain.ParsedChartData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.data, m.err
}

func (m *mockComputer) CheckReadiness(context.Context) error {
	return m.ready
}

type mockPublisher struct {
	published []domain.ChartArtifact
	err       error
}

func (m *mockPublisher) PublishChart(ctx context.Context, a domain.ChartArtifact) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish context has no deadline")
	}
	m.published = append(m.published, a)
	return m.err
}

type fixture struct {
	pipeline  *pipeline.Pipeline
	store     *store.Memory
	computer  *mockComputer
	publisher *mockPublisher
	metrics   *observability.Metrics
	clock     *clockwork.FakeClock
}

var createdAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, data domain.ParsedChartData) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(createdAt)
	n := 0
	st := store.New(store.WithClock(clock), store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	f := &fixture{
		store:     st,
		computer:  &mockComputer{data: data},
		publisher: &mockPublisher{},
		metrics:   observability.NewMetricsForTesting(),
		clock:     clock,
	}
	f.pipeline = pipeline.New(f.computer, f.store, f.publisher, slog.New(slog.NewTextHandler(io.Discard, nil)), f.metrics)
	return f
}

func sampleChart(t *testing.T) domain.ParsedChartData {
	t.Helper()
	data, err := domain.ParseUpstreamResponse([]byte(`{
		"planets": [
			{"name": "Sol", "sign": "Touro", "degree": 29.1, "house": 9},
			{"name": "Lua", "sign": "Escorpião", "degree": 3.5, "house": 3}
		],
		"houses": [{"sign": "Leão", "degree": 12.25, "ruler": "Sol"}],
		"aspects": [{"planet1": "Sol", "planet2": "Lua", "aspect": "Oposição", "orb": 4.4}],
		"sun": {"sign": "Touro"},
		"moon": {"sign": "Escorpião"},
		"ascendant": {"sign": "Leão"}
	}`))
	require.NoError(t, err)
	return data
}

func mariaSilva() domain.BirthInput {
	return domain.BirthInput{
		Name:      "Maria Silva",
		BirthDate: "1990-05-20",
		BirthTime: "14:30",
		BirthCity: "São Paulo",
		Timezone:  "America/Sao_Paulo",
	}
}

// --- Generate ---

func TestPipeline_Generate_MariaSilva(t *testing.T) {
	f := newFixture(t, sampleChart(t))

	a, err := f.pipeline.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)

	assert.Equal(t, "id-2", a.ID)
	assert.Equal(t, "id-1", a.BirthRecordID)
	assert.True(t, strings.HasPrefix(a.SVG, "<svg"))
	assert.Equal(t, "Touro", a.SunSign)
	assert.Equal(t, "Escorpião", a.MoonSign)
	assert.Equal(t, "Leão", a.RisingSign)
	assert.Equal(t, createdAt, a.CreatedAt)
	assert.JSONEq(t, `{
		"planets": [
			{"name": "Sol", "sign": "Touro", "degree": 29.1, "house": 9, "symbol": "♉"},
			{"name": "Lua", "sign": "Escorpião", "degree": 3.5, "house": 3, "symbol": "♏"}
		],
		"houses": [{"number": 1, "sign": "Leão", "degree": 12.25, "ruler": "Sol"}],
		"aspects": [{"planet1": "Sol", "planet2": "Lua", "aspect": "Oposição", "orb": 4.4, "symbol": "☍"}],
		"sunSign": "Touro",
		"moonSign": "Escorpião",
		"risingSign": "Leão"
	}`, a.ChartData)

	rec, err := f.store.GetBirthRecord(a.BirthRecordID)
	require.NoError(t, err)
	require.NotNil(t, rec.Latitude)
	require.NotNil(t, rec.Longitude)
	assert.Equal(t, -23.5505, *rec.Latitude)
	assert.Equal(t, -46.6333, *rec.Longitude)

	want := []domain.ChartRequest{{
		Date:      "1990-05-20",
		Time:      "14:30",
		Latitude:  -23.5505,
		Longitude: -46.6333,
		Timezone:  "America/Sao_Paulo",
	}}
	if diff := cmp.Diff(want, f.computer.requests); diff != "" {
		t.Errorf("upstream requests mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, a, f.publisher.published[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChartsGenerated))
}

func TestPipeline_Generate_FallbackSigns(t *testing.T) {
	empty, err := domain.ParseUpstreamResponse([]byte(`{}`))
	require.NoError(t, err)
	f := newFixture(t, empty)

	a, err := f.pipeline.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)

	assert.Equal(t, "Áries", a.SunSign)
	assert.Equal(t, "Touro", a.MoonSign)
	assert.Equal(t, "Gêmeos", a.RisingSign)
	assert.NotEmpty(t, a.SVG)
}

func TestPipeline_Generate_UnknownCityUsesDefaults(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	in := mariaSilva()
	in.BirthCity = "Nowhereville"
	in.Timezone = ""

	a, err := f.pipeline.Generate(context.Background(), in)
	require.NoError(t, err)

	rec, err := f.store.GetBirthRecord(a.BirthRecordID)
	require.NoError(t, err)
	assert.Nil(t, rec.Latitude)
	assert.Nil(t, rec.Longitude)
	assert.Equal(t, domain.DefaultTimezone, rec.Timezone)

	require.Len(t, f.computer.requests, 1)
	req := f.computer.requests[0]
	assert.Equal(t, domain.DefaultLatitude, req.Latitude)
	assert.Equal(t, domain.DefaultLongitude, req.Longitude)
	assert.Equal(t, domain.DefaultTimezone, req.Timezone)
}

func TestPipeline_Generate_ExplicitCoordinatesKeptForUnknownCity(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	lat, lng := 48.8566, 2.3522
	in := mariaSilva()
	in.BirthCity = "Paris"
	in.Latitude, in.Longitude = &lat, &lng

	_, err := f.pipeline.Generate(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, f.computer.requests, 1)
	assert.Equal(t, lat, f.computer.requests[0].Latitude)
	assert.Equal(t, lng, f.computer.requests[0].Longitude)
}

func TestPipeline_Generate_ValidationStoresNothing(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	in := mariaSilva()
	in.Name = "A"

	_, err := f.pipeline.Generate(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "name", verr.Fields[0].Field)

	births, charts := f.store.Counts()
	assert.Zero(t, births)
	assert.Zero(t, charts)
	assert.Empty(t, f.computer.requests)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GenerationErrors.WithLabelValues("validation")))
}

func TestPipeline_Generate_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"upstream error", fmt.Errorf("%w: status 502", domain.ErrUpstream)},
		{"missing key", domain.ErrMissingAPIKey},
		{"unclassified error", errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sampleChart(t))
			f.computer.err = tt.err

			_, err := f.pipeline.Generate(context.Background(), mariaSilva())

			require.ErrorIs(t, err, domain.ErrUpstream)
			require.ErrorIs(t, err, tt.err)
			births, charts := f.store.Counts()
			assert.Equal(t, 1, births, "birth record is kept")
			assert.Zero(t, charts, "no artifact on upstream failure")
			assert.Empty(t, f.publisher.published)
		})
	}
}

func TestPipeline_Generate_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	f.publisher.err = errors.New("broker down")

	a, err := f.pipeline.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
}

func TestPipeline_Generate_NilPublisher(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	p := pipeline.New(f.computer, f.store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), f.metrics)

	_, err := p.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)
}

// --- downloads ---

func TestPipeline_SVG(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	a, err := f.pipeline.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)

	svg, err := f.pipeline.SVG(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.SVG, svg)

	_, err = f.pipeline.SVG("unknown")
	require.ErrorIs(t, err, domain.ErrChartNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Downloads.WithLabelValues("svg", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Downloads.WithLabelValues("svg", "not_found")))
}

func TestPipeline_Report(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	a, err := f.pipeline.Generate(context.Background(), mariaSilva())
	require.NoError(t, err)

	report, err := f.pipeline.Report(a.ID)
	require.NoError(t, err)

	text := string(report)
	assert.Contains(t, text, "Nome: Maria Silva")
	assert.Contains(t, text, "Data de Nascimento: 1990-05-20")
	assert.Contains(t, text, "☉ Sol: Touro")
	assert.Contains(t, text, "Sol: Touro - 29.10° (Casa 9)")
	assert.Contains(t, text, "Casa 1: Leão - 12.25°")
	assert.Contains(t, text, "Sol ☍ Lua (Orbe: 4.4°)")
}

func TestPipeline_Report_NotFoundKinds(t *testing.T) {
	f := newFixture(t, sampleChart(t))

	_, err := f.pipeline.Report("unknown")
	require.ErrorIs(t, err, domain.ErrChartNotFound)

	dangling := f.store.CreateChartArtifact(domain.ChartArtifactInput{
		BirthRecordID: "missing-birth",
		ChartData:     `{}`,
	})
	_, err = f.pipeline.Report(dangling.ID)
	require.ErrorIs(t, err, domain.ErrBirthRecordNotFound)
	assert.NotErrorIs(t, err, domain.ErrChartNotFound)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Downloads.WithLabelValues("pdf", "not_found")))
}

func TestPipeline_Report_CorruptChartData(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	rec := f.store.CreateBirthRecord(mariaSilva())
	a := f.store.CreateChartArtifact(domain.ChartArtifactInput{BirthRecordID: rec.ID, ChartData: "not json"})

	_, err := f.pipeline.Report(a.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Downloads.WithLabelValues("pdf", "error")))
}

// --- readiness ---

func TestPipeline_CheckReadiness(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	require.NoError(t, f.pipeline.CheckReadiness(context.Background()))

	f.computer.ready = domain.ErrMissingAPIKey
	assert.ErrorIs(t, f.pipeline.CheckReadiness(context.Background()), domain.ErrMissingAPIKey)
}

// computeOnly hides any readiness method of the wrapped computer.
type computeOnly struct{ domain.ChartComputer }

func TestPipeline_CheckReadiness_ComputerWithoutReadinessCheck(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	f.computer.ready = domain.ErrMissingAPIKey
	p := pipeline.New(computeOnly{f.computer}, f.store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), f.metrics)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Generate_Concurrent(t *testing.T) {
	f := newFixture(t, sampleChart(t))
	// The fixture's id generator is not goroutine-safe.
	st := store.New(store.WithClock(f.clock))
	p := pipeline.New(f.computer, st, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), f.metrics)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Generate(context.Background(), mariaSilva())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	births, charts := st.Counts()
	assert.Equal(t, 20, births)
	assert.Equal(t, 20, charts)
}
