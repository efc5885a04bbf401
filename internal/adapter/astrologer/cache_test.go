package astrologer

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
)

// --- mock for decorator tests ---

type countingComputer struct {
	calls int
	data  domain.ParsedChartData
	err   error
	ready error
}

func (m *countingComputer) ComputeChart(_ context.Context, _ domain.ChartRequest) (domain.ParsedChartData, error) {
	m.calls++
	if m.err != nil {
		return domain.ParsedChartData{}, m.err
	}
	return m.data, nil
}

func (m *countingComputer) CheckReadiness(context.Context) error {
	return m.ready
}

func sampleChart() domain.ParsedChartData {
	return domain.ParsedChartData{
		Planets: []domain.PlanetPosition{{Name: "Sol", Sign: "Touro", Degree: 24.5, House: 9}},
		SunSign: "Touro",
	}
}

// --- CachedComputer tests ---

func TestCachedComputer_CacheHit(t *testing.T) {
	inner := &countingComputer{data: sampleChart()}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedComputer(inner, 10, metrics)

	d1, err := cached.ComputeChart(context.Background(), testRequest())
	require.NoError(t, err)
	d2, err := cached.ComputeChart(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamCache.WithLabelValues("miss")))
}

func TestCachedComputer_DifferentKeysMiss(t *testing.T) {
	inner := &countingComputer{data: sampleChart()}
	cached := NewCachedComputer(inner, 10, observability.NewMetricsForTesting())

	other := testRequest()
	other.Time = "14:31"

	_, _ = cached.ComputeChart(context.Background(), testRequest())
	_, _ = cached.ComputeChart(context.Background(), other)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedComputer_ErrorsNotCached(t *testing.T) {
	inner := &countingComputer{err: errors.New("boom")}
	cached := NewCachedComputer(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.ComputeChart(context.Background(), testRequest())
	require.Error(t, err)

	inner.err = nil
	inner.data = sampleChart()
	d, err := cached.ComputeChart(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Touro", d.SunSign)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedComputer_CallerCannotMutateCache(t *testing.T) {
	inner := &countingComputer{data: sampleChart()}
	cached := NewCachedComputer(inner, 10, observability.NewMetricsForTesting())

	d1, _ := cached.ComputeChart(context.Background(), testRequest())
	d1.Planets[0].Name = "mutated"

	d2, _ := cached.ComputeChart(context.Background(), testRequest())
	assert.Equal(t, "Sol", d2.Planets[0].Name)
}

func TestCachedComputer_CheckReadinessDelegates(t *testing.T) {
	inner := &countingComputer{ready: domain.ErrMissingAPIKey}
	cached := NewCachedComputer(inner, 10, observability.NewMetricsForTesting())

	assert.ErrorIs(t, cached.CheckReadiness(context.Background()), domain.ErrMissingAPIKey)
}
