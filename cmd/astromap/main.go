package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/prof-ramos/astromap/internal/adapter/astrologer"
	httpadapter "github.com/prof-ramos/astromap/internal/adapter/http"
	kafkaadapter "github.com/prof-ramos/astromap/internal/adapter/kafka"
	"github.com/prof-ramos/astromap/internal/config"
	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
	"github.com/prof-ramos/astromap/internal/pipeline"
	"github.com/prof-ramos/astromap/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if cfg.AstrologerAPIKey == "" {
		logger.Warn("no astrology API key configured; chart generation will fail until RAPIDAPI_KEY is set")
	}

	computer := newChartComputer(cfg, logger, metrics)

	var publisher pipeline.EventPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		publisher = kafkaPublisher
		logger.Info("chart events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaChartTopic)
	} else {
		logger.Info("chart events disabled")
	}

	p := pipeline.New(computer, store.New(), publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.CORSAllowedOrigins, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newChartComputer assembles the upstream client behind its breaker and cache.
func newChartComputer(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.ChartComputer {
	var c domain.ChartComputer = astrologer.NewClient(
		cfg.AstrologerAPIKey,
		cfg.AstrologerHost,
		cfg.AstrologerBaseURL,
		cfg.AstrologerTimeout,
		logger,
		metrics,
	)
	c = astrologer.NewBreakerComputer(c, astrologer.BreakerSettings{
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  cfg.BreakerMinRequests,
		OpenTimeout:  cfg.BreakerOpenTimeout,
	}, logger, metrics)

	if cfg.AstrologerCacheSize > 0 {
		c = astrologer.NewCachedComputer(c, cfg.AstrologerCacheSize, metrics)
		logger.Info("chart cache enabled", "cache_size", cfg.AstrologerCacheSize)
	}
	return c
}
