package astrologer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/sony/gobreaker"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
)

// BreakerSettings configures when the circuit opens and how long it stays open.
type BreakerSettings struct {
	FailureRatio float64
	MinRequests  uint32
	OpenTimeout  time.Duration
}

// BreakerComputer guards a ChartComputer with a circuit breaker. While the
// circuit is open, calls fail immediately without reaching the API. Failed
// calls are never retried.
type BreakerComputer struct {
	inner  domain.ChartComputer
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreakerComputer wraps inner with a circuit breaker named "astrologer".
func NewBreakerComputer(inner domain.ChartComputer, s BreakerSettings, logger *slog.Logger, metrics *observability.Metrics) *BreakerComputer {
	b := &BreakerComputer{inner: inner, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "astrologer",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.BreakerState.Set(float64(to))
		},
		IsSuccessful: func(err error) bool {
			// A missing key or a caller that gave up says nothing about API health.
			return err == nil ||
				errors.Is(err, domain.ErrMissingAPIKey) ||
				errors.Is(err, context.Canceled)
		},
	})
	return b
}

func (b *BreakerComputer) ComputeChart(ctx context.Context, req domain.ChartRequest) (domain.ParsedChartData, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.ComputeChart(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.ParsedChartData{}, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	if err != nil {
		return domain.ParsedChartData{}, err
	}
	return out.(domain.ParsedChartData), nil
}

// CheckReadiness fails while the circuit is open, then defers to the wrapped computer.
func (b *BreakerComputer) CheckReadiness(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit breaker open", domain.ErrUpstream)
	}
	return checkReadiness(ctx, b.inner)
}

// checkReadiness calls c.CheckReadiness when c implements it.
func checkReadiness(ctx context.Context, c domain.ChartComputer) error {
	if rc, ok := c.(sharedobs.ReadinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
