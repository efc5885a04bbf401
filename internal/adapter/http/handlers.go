package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/prof-ramos/astromap/internal/domain"
)

// maxBodyBytes caps the size of a generate-chart request body.
const maxBodyBytes = 64 << 10

// User-facing messages.
const (
	msgInvalidBody       = "Corpo da requisição inválido"
	msgGenerationFailed  = "Falha ao gerar mapa astral. Tente novamente."
	msgInternal          = "Erro interno do servidor"
	msgChartNotFound     = "Mapa astral não encontrado"
	msgBirthNotFound     = "Dados de nascimento não encontrados"
	msgSVGDownloadFailed = "Erro ao baixar SVG"
	msgPDFFailed         = "Erro ao gerar PDF"
)

type generateResponse struct {
	Success bool                  `json:"success"`
	Chart   *domain.ChartArtifact `json:"chart,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerateChart(w http.ResponseWriter, r *http.Request) {
	var in domain.BirthInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, generateResponse{Error: msgInvalidBody})
		return
	}

	chart, err := s.charts.Generate(r.Context(), in)
	if err != nil {
		status, msg := http.StatusInternalServerError, msgInternal
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			status, msg = http.StatusBadRequest, verr.Error()
		case errors.Is(err, domain.ErrUpstream):
			msg = msgGenerationFailed
		default:
			s.logger.Error("chart generation failed", "error", err)
		}
		sharedobs.WriteJSON(w, status, generateResponse{Error: msg})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, generateResponse{Success: true, Chart: &chart})
}

func (s *Server) handleDownloadSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chartId")

	svg, err := s.charts.SVG(id)
	if errors.Is(err, domain.ErrNotFound) {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: msgChartNotFound})
		return
	}
	if err != nil {
		s.logger.Error("svg download failed", "chart_id", id, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: msgSVGDownloadFailed})
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="mapa-astral-%s.svg"`, id))
	_, _ = w.Write([]byte(svg))
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chartId")

	report, err := s.charts.Report(id)
	switch {
	case errors.Is(err, domain.ErrChartNotFound):
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: msgChartNotFound})
		return
	case errors.Is(err, domain.ErrBirthRecordNotFound):
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: msgBirthNotFound})
		return
	case err != nil:
		s.logger.Error("report download failed", "chart_id", id, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: msgPDFFailed})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-astral-%s.pdf"`, id))
	_, _ = w.Write(report)
}
