package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
	"github.com/google/uuid"
)

// Assessor answers one assessment request.
type Assessor interface {
	Assess(ctx context.Context, req service.Request) (service.Result, error)
}

// AssessmentTransformer implements Transformer by running each request
// through the assessment service. Streamed requests never render maps.
type AssessmentTransformer struct {
	assessor Assessor
	logger   *slog.Logger
}

// NewTransformer creates an AssessmentTransformer.
func NewTransformer(assessor Assessor, logger *slog.Logger) *AssessmentTransformer {
	return &AssessmentTransformer{assessor: assessor, logger: logger}
}

// ErrUnaddressable marks a message that cannot be answered: its payload does
// not decode and it carries no key to reply under.
var ErrUnaddressable = errors.New("unaddressable request")

// Transform decodes raw and assesses it. Every message with a key gets an
// event: domain failures such as an unknown location become error events, an
// undecodable payload becomes an invalid_input event and internal failures an
// internal event without detail. Undecodable keyless messages fail with
// ErrUnaddressable.
func (t *AssessmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.AssessmentEvent, error) {
	requestID := string(raw.Key)

	var req service.Request
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		if requestID == "" {
			return domain.AssessmentEvent{}, fmt.Errorf("%w: %w", ErrUnaddressable, err)
		}
		return domain.NewAssessmentEvent(requestID, nil, fmt.Errorf("%w: decode request: %w", domain.ErrInvalidInput, err)), nil
	}
	req.RenderMaps = false
	if requestID == "" {
		requestID = uuid.NewString()
	}

	res, err := t.assessor.Assess(ctx, req)
	switch {
	case err == nil:
		return domain.NewAssessmentEvent(requestID, &res.Assessment, nil), nil
	case domain.ErrorCode(err) == domain.CodeInternal:
		t.logger.Error("assessment failed", "request_id", requestID, "error", err)
		return domain.NewAssessmentEvent(requestID, nil, errInternal), nil
	case errors.Is(err, domain.ErrUnknownAquiferScore):
		t.logger.Debug("assessment rejected", "request_id", requestID, "error", err)
		return domain.NewAssessmentEvent(requestID, &res.Assessment, err), nil
	default:
		t.logger.Debug("assessment rejected", "request_id", requestID, "error", err)
		return domain.NewAssessmentEvent(requestID, nil, err), nil
	}
}

// errInternal replaces internal failure detail in published events.
var errInternal = errors.New("internal error")
