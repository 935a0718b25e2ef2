// Package service ties the assessor, map renderer and aquifer predictor
// together and records metrics and logs for every call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
)

// Request is an assessment request as received from a transport.
type Request struct {
	domain.AssessmentRequest
	RenderMaps bool `json:"renderMaps"`
}

// Result is an assessment plus the maps rendered for it.
type Result struct {
	domain.Assessment
	Maps *mapsvg.Render `json:"maps,omitempty"`
}

// Service answers assessment, trend and prediction queries.
type Service struct {
	assessor  *domain.Assessor
	renderer  *mapsvg.Renderer
	predictor domain.AquiferPredictor
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. A nil renderer disables maps and a nil predictor
// makes Predict fail with domain.ErrPredictorDisabled.
func New(assessor *domain.Assessor, renderer *mapsvg.Renderer, predictor domain.AquiferPredictor, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if predictor != nil {
		metrics.PredictorEnabled.Set(1)
	} else {
		metrics.PredictorEnabled.Set(0)
	}
	return &Service{
		assessor:  assessor,
		renderer:  renderer,
		predictor: predictor,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether every reference dataset is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	for _, name := range []string{domain.DatasetRainfall, domain.DatasetAquifer, domain.DatasetGroundwater} {
		if _, err := s.assessor.Index().Table(name); err != nil {
			return err
		}
	}
	return nil
}

// Assess scores req and, when asked, renders its maps. A failed render is
// logged and noted but does not fail the assessment. For unknown aquifer
// scores the partial result is returned together with the error.
func (s *Service) Assess(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	defer func() { s.metrics.AssessmentDuration.Observe(time.Since(start).Seconds()) }()

	a, err := s.assessor.Assess(req.AssessmentRequest)
	s.record(req, a, err)
	if err != nil {
		if a.Resolutions == nil {
			return Result{}, err
		}
		return Result{Assessment: a}, err
	}

	out := Result{Assessment: a}
	if req.RenderMaps && s.renderer != nil {
		render, err := s.renderer.RenderLocation(ctx, req.District, a.State)
		if err != nil {
			s.logger.Error("map render failed", "district", req.District, "state", req.State, "error", err)
			out.Notes = append(out.Notes, "Maps could not be rendered")
		} else {
			out.Maps = &render
		}
	}
	return out, nil
}

func (s *Service) record(req Request, a domain.Assessment, err error) {
	outcome := a.Outcome.String()
	if err != nil {
		outcome = domain.ErrorCode(err)
	}
	s.metrics.Assessments.WithLabelValues(outcome).Inc()

	for _, r := range a.Resolutions {
		s.metrics.Resolutions.WithLabelValues(r.Dataset, string(r.Candidate), r.Strategy).Inc()
		if r.Ambiguous {
			s.metrics.AmbiguousMatches.WithLabelValues(r.Dataset).Inc()
			s.logger.Warn("ambiguous location match",
				"dataset", r.Dataset,
				"candidate", r.Candidate,
				"matched", r.MatchedName,
				"district", req.District,
				"state", req.State,
			)
		}
	}
	for _, note := range a.Notes {
		s.logger.Info("assessment note", "district", req.District, "state", req.State, "note", note)
	}

	var nf *domain.LocationNotFoundError
	switch {
	case err == nil:
		s.logger.Debug("assessment complete", "district", req.District, "state", req.State, "outcome", outcome)
	case errors.As(err, &nf):
		s.logger.Info("location not found", "dataset", nf.Dataset, "district", req.District, "state", req.State)
	case errors.Is(err, domain.ErrInvalidInput):
		s.logger.Debug("invalid assessment request", "error", err)
	default:
		s.logger.Warn("assessment failed", "district", req.District, "state", req.State, "error", err)
	}
}

// Trends returns groundwater series per district. A non-empty district
// limits the result to names that normalize equal to it.
func (s *Service) Trends(district string) (map[string][]domain.TrendPoint, error) {
	table, err := s.assessor.Index().Table(domain.DatasetGroundwater)
	if err != nil {
		return nil, err
	}
	all := domain.GroundwaterTrends(table)
	if district == "" {
		return all, nil
	}
	want := domain.Normalize(district)
	out := make(map[string][]domain.TrendPoint)
	for name, series := range all {
		if domain.Normalize(name) == want {
			out[name] = append(out[name], series...)
		}
	}
	if len(out) == 0 {
		return nil, &domain.LocationNotFoundError{
			Dataset:    domain.DatasetGroundwater,
			Candidates: []domain.Candidate{{Kind: domain.CandidateDistrict, Column: domain.ColGroundwaterDistrict, Value: district}},
		}
	}
	return out, nil
}

// Predict asks the aquifer predictor for obs.
func (s *Service) Predict(ctx context.Context, obs domain.AquiferObservation) (domain.AquiferPrediction, error) {
	if s.predictor == nil {
		return domain.AquiferPrediction{}, domain.ErrPredictorDisabled
	}
	pred, err := s.predictor.Predict(ctx, domain.BuildAquiferFeatures(obs))
	if err != nil {
		return domain.AquiferPrediction{}, fmt.Errorf("predict aquifer: %w", err)
	}
	return pred, nil
}

// Artifact returns a rendered map.
func (s *Service) Artifact(id, name string) ([]byte, error) {
	if s.renderer == nil {
		return nil, mapsvg.ErrArtifactNotFound
	}
	return s.renderer.Artifact(id, name)
}
