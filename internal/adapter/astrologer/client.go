// Package astrologer computes natal chart data through the Astrologer API on RapidAPI.
package astrologer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
)

const (
	birthChartPath = "/api/v4/birth-chart"

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 4 << 20
)

// Client implements domain.ChartComputer against the Astrologer API.
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Astrologer API client. The timeout bounds each call.
func NewClient(apiKey, host, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:  apiKey,
		host:    host,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// ComputeChart requests planetary positions, houses, and aspects for req.
// Every failure wraps domain.ErrUpstream. No request is sent without an API key.
func (c *Client) ComputeChart(ctx context.Context, req domain.ChartRequest) (domain.ParsedChartData, error) {
	if c.apiKey == "" {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.ParsedChartData{}, domain.ErrMissingAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return domain.ParsedChartData{}, fmt.Errorf("encode chart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+birthChartPath, bytes.NewReader(payload))
	if err != nil {
		return domain.ParsedChartData{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", c.host)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.ParsedChartData{}, fmt.Errorf("%w: birth chart request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.ParsedChartData{}, fmt.Errorf("%w: read response: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		c.logger.Warn("astrologer API error", "status", resp.StatusCode)
		return domain.ParsedChartData{}, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, bytes.TrimSpace(body))
	}

	data, err := domain.ParseUpstreamResponse(body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.ParsedChartData{}, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	c.logger.Debug("chart computed",
		"planets", len(data.Planets),
		"houses", len(data.Houses),
		"aspects", len(data.Aspects),
		"duration", time.Since(start),
	)
	return data, nil
}

// CheckReadiness fails when no API key is configured.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.apiKey == "" {
		return domain.ErrMissingAPIKey
	}
	return nil
}
