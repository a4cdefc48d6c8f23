// Package httpadapter exposes the assessment service over HTTP.
package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"envrisk/internal/domain"
	"envrisk/internal/ports"
	"envrisk/internal/report"
	"envrisk/internal/services/assessments"
	"envrisk/internal/workers/assessrunner"
)

const inlineTimeout = 60 * time.Second

// Server wires the service into chi routes.
type Server struct {
	svc       *assessments.Service
	jobs      ports.JobRepository
	processor assessrunner.AssessmentProcessor
	logger    *slog.Logger
}

func New(svc *assessments.Service, jobs ports.JobRepository, processor assessrunner.AssessmentProcessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, jobs: jobs, processor: processor, logger: logger}
}

// Routes returns the router with all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/sites", s.handleCreateSite)
	r.Get("/sites/{id}", s.handleGetSite)

	r.Post("/assessments", s.handleCreateAssessment)
	r.Get("/assessments/{id}", s.handleGetStatus)
	r.Get("/assessments/{id}/result", s.handleGetResult)
	r.Get("/assessments/{id}/report", s.handleGetReport)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var site domain.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	id, err := s.svc.CreateSite(r.Context(), site)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"site_id": id})
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	site, err := s.svc.GetSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessments.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	id, err := s.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	// Blocking path for small payloads and tests
	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), inlineTimeout)
		defer cancel()
		if err := assessrunner.ProcessInline(ctx, s.jobs, s.processor, id); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		a, err := s.svc.Get(ctx, id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, assessmentResponse(a))
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"assessment_id": id})
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, progress, err := s.svc.Status(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"assessment_id": id,
		"status":        status,
		"progress":      progress,
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if a.Status != domain.StatusCompleted {
		s.writeError(w, http.StatusConflict, fmt.Errorf("assessment is %s", a.Status))
		return
	}
	s.writeJSON(w, http.StatusOK, assessmentResponse(a))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if a.Status != domain.StatusCompleted {
		s.writeError(w, http.StatusConflict, fmt.Errorf("assessment is %s", a.Status))
		return
	}

	var buf bytes.Buffer
	switch a.Kind {
	case domain.AssessmentPhases:
		var analysis domain.PhaseAnalysis
		if err := json.Unmarshal(a.Result, &analysis); err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Errorf("decode result: %w", err))
			return
		}
		f, err := report.PhaseWorkbook(analysis)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		defer f.Close()
		if err := f.Write(&buf); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	case domain.AssessmentSnapshot:
		var records []domain.ScoredRecord
		if err := json.Unmarshal(a.Result, &records); err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Errorf("decode result: %w", err))
			return
		}
		f, err := report.SnapshotWorkbook(records)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		defer f.Close()
		if err := f.Write(&buf); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	default:
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("unknown assessment kind %q", a.Kind))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment-%s.xlsx"`, a.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// assessmentResponse shapes an assessment for the wire, embedding the raw
// result document.
func assessmentResponse(a domain.Assessment) map[string]any {
	resp := map[string]any{
		"assessment_id": a.ID,
		"kind":          a.Kind,
		"country":       a.Country,
		"status":        a.Status,
		"progress":      a.Progress,
		"degraded":      a.Degraded,
	}
	if len(a.Result) > 0 {
		resp["result"] = json.RawMessage(a.Result)
	}
	return resp
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		s.logger.Error("request failed", slog.Int("status", code), slog.String("error", err.Error()))
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", slog.String("error", err.Error()))
	}
}
