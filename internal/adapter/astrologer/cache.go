package astrologer

import (
	"context"
	"fmt"
	"slices"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
)

// CachedComputer wraps a ChartComputer with an in-memory LRU cache.
// Identical birth moments and places always yield the same chart.
type CachedComputer struct {
	inner   domain.ChartComputer
	cache   *lruCache[string, domain.ParsedChartData]
	metrics *observability.Metrics
}

// NewCachedComputer creates a cache decorator around a chart computer.
func NewCachedComputer(inner domain.ChartComputer, maxEntries int, metrics *observability.Metrics) *CachedComputer {
	return &CachedComputer{
		inner:   inner,
		cache:   newLRUCache[string, domain.ParsedChartData](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedComputer) ComputeChart(ctx context.Context, req domain.ChartRequest) (domain.ParsedChartData, error) {
	key := cacheKey(req)
	if data, ok := c.cache.get(key); ok {
		c.metrics.UpstreamCache.WithLabelValues("hit").Inc()
		return cloneChart(data), nil
	}
	c.metrics.UpstreamCache.WithLabelValues("miss").Inc()

	data, err := c.inner.ComputeChart(ctx, req)
	if err != nil {
		return data, err
	}
	// Failures are never cached so the next request reaches the API again.
	c.cache.put(key, cloneChart(data))
	return data, nil
}

// CheckReadiness delegates to the wrapped computer when it supports readiness.
func (c *CachedComputer) CheckReadiness(ctx context.Context) error {
	return checkReadiness(ctx, c.inner)
}

func cacheKey(req domain.ChartRequest) string {
	return fmt.Sprintf("%s|%s|%.6f|%.6f|%s", req.Date, req.Time, req.Latitude, req.Longitude, req.Timezone)
}

func cloneChart(d domain.ParsedChartData) domain.ParsedChartData {
	d.Planets = slices.Clone(d.Planets)
	d.Houses = slices.Clone(d.Houses)
	d.Aspects = slices.Clone(d.Aspects)
	return d
}
