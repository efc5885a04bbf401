package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Astrology API configuration.
	AstrologerAPIKey    string
	AstrologerBaseURL   string
	AstrologerHost      string
	AstrologerTimeout   time.Duration
	AstrologerCacheSize int

	// Circuit breaker around the astrology API.
	BreakerFailureRatio float64
	BreakerMinRequests  uint32
	BreakerOpenTimeout  time.Duration

	// Chart events are published only when brokers are configured.
	KafkaBrokers    []string
	KafkaChartTopic string
}

// KafkaEnabled reports whether chart events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	astrologerTimeout, err := parsePositiveDuration("ASTROLOGER_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	breakerOpenTimeout, err := parsePositiveDuration("BREAKER_OPEN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("ASTROLOGER_CACHE_SIZE", "500"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid ASTROLOGER_CACHE_SIZE: must be a non-negative integer")
	}

	ratio, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("BREAKER_FAILURE_RATIO", "0.6"), 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		return nil, errors.New("invalid BREAKER_FAILURE_RATIO: must be in (0, 1]")
	}

	minRequests, err := strconv.ParseUint(sharedcfg.EnvOrDefault("BREAKER_MIN_REQUESTS", "5"), 10, 32)
	if err != nil || minRequests == 0 {
		return nil, errors.New("invalid BREAKER_MIN_REQUESTS: must be a positive integer")
	}

	apiKey := os.Getenv("RAPIDAPI_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ASTROLOGER_API_KEY")
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		AstrologerAPIKey:    apiKey,
		AstrologerBaseURL:   sharedcfg.EnvOrDefault("ASTROLOGER_BASE_URL", "https://astrologer.p.rapidapi.com"),
		AstrologerHost:      sharedcfg.EnvOrDefault("ASTROLOGER_HOST", "astrologer.p.rapidapi.com"),
		AstrologerTimeout:   astrologerTimeout,
		AstrologerCacheSize: cacheSize,

		BreakerFailureRatio: ratio,
		BreakerMinRequests:  uint32(minRequests),
		BreakerOpenTimeout:  breakerOpenTimeout,

		KafkaBrokers:    sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaChartTopic: sharedcfg.EnvOrDefault("KAFKA_CHART_TOPIC", "natal-charts-generated"),
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
