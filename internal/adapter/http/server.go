// Package http exposes chart generation and downloads over HTTP, alongside
// health, readiness, metrics, and API documentation endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prof-ramos/astromap/internal/domain"
)

// ChartService generates charts and serves their downloads.
type ChartService interface {
	sharedobs.ReadinessChecker
	Generate(ctx context.Context, in domain.BirthInput) (domain.ChartArtifact, error)
	SVG(chartID string) (string, error)
	Report(chartID string) ([]byte, error)
}

// Server exposes the chart API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	charts     ChartService
	logger     *slog.Logger
}

// NewServer creates an HTTP server. allowedOrigins configures CORS; "*" allows any origin.
func NewServer(addr string, allowedOrigins []string, charts ChartService, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Generation waits on the upstream API, bounded by its own client timeout.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts: charts,
		logger: logger,
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(charts))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-chart", s.handleGenerateChart)
		r.Get("/download-svg/{chartId}", s.handleDownloadSVG)
		r.Get("/download-pdf/{chartId}", s.handleDownloadPDF)
		r.Get("/openapi.json", handleOpenAPIJSON)
		r.Get("/openapi.yaml", handleOpenAPIYAML)
		r.Get("/docs", handleDocs)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
