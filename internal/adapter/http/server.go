package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Service is the application surface the HTTP API serves.
type Service interface {
	Assess(ctx context.Context, req service.Request) (service.Result, error)
	Trends(district string) (map[string][]domain.TrendPoint, error)
	Predict(ctx context.Context, obs domain.AquiferObservation) (domain.AquiferPrediction, error)
	Artifact(id, name string) ([]byte, error)
}

// Server exposes the assessment API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error      string             `json:"error"`
	Code       string             `json:"code"`
	Dataset    string             `json:"dataset,omitempty"`
	Candidates []domain.Candidate `json:"candidates,omitempty"`
	Assessment *domain.Assessment `json:"assessment,omitempty"`
}

// NewServer creates an HTTP server with the /v1 API and the /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, svc Service, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/assessments", s.handleAssess)
		r.Get("/groundwater/trends", s.handleTrends)
		r.Post("/aquifer/predictions", s.handlePredict)
		r.Get("/maps/{id}/{name}", s.handleMap)
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

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req service.Request
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Assess(r.Context(), req)
	if err != nil {
		var partial *domain.Assessment
		if res.Resolutions != nil {
			partial = &res.Assessment
		}
		s.writeError(w, err, partial)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.svc.Trends(r.URL.Query().Get("district"))
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trends": trends})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var obs domain.AquiferObservation
	if !s.decode(w, r, &obs) {
		return
	}
	pred, err := s.svc.Predict(r.Context(), obs)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.Artifact(chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client may have gone away
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "malformed request body: " + err.Error(),
			Code:  domain.CodeInvalidInput,
		})
		return false
	}
	return true
}

// writeError maps err onto a status code and the JSON error body.
func (s *Server) writeError(w http.ResponseWriter, err error, partial *domain.Assessment) {
	body := errorResponse{Error: err.Error(), Code: domain.ErrorCode(err)}
	status := http.StatusInternalServerError

	var nf *domain.LocationNotFoundError
	var pe *domain.ParseError
	switch {
	case errors.As(err, &nf):
		status = http.StatusNotFound
		body.Dataset = nf.Dataset
		body.Candidates = nf.Candidates
	case errors.Is(err, domain.ErrUnknownAquiferScore):
		status = http.StatusUnprocessableEntity
		body.Assessment = partial
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.As(err, &pe):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPredictorDisabled):
		status = http.StatusServiceUnavailable
		body.Code = "predictor_disabled"
	case errors.Is(err, mapsvg.ErrArtifactNotFound):
		status = http.StatusNotFound
		body.Code = "map_not_found"
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		if body.Code == domain.CodeInternal {
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
