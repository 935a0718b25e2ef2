package domain

import (
	"context"
	"errors"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Event statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// EventError describes why a streamed assessment failed.
type EventError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Dataset    string      `json:"dataset,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// NewEventError builds the error body for err, including lookup details
// for *LocationNotFoundError.
func NewEventError(err error) *EventError {
	out := &EventError{Code: ErrorCode(err), Message: err.Error()}
	var nf *LocationNotFoundError
	if errors.As(err, &nf) {
		out.Dataset = nf.Dataset
		out.Candidates = nf.Candidates
	}
	return out
}

// AssessmentEvent is the message published for every consumed request.
type AssessmentEvent struct {
	RequestID   string      `json:"request_id"`
	Status      string      `json:"status"`
	Assessment  *Assessment `json:"assessment,omitempty"`
	Error       *EventError `json:"error,omitempty"`
	ProcessedAt time.Time   `json:"processed_at"`
}

// NewAssessmentEvent wraps a result. A non-nil err yields an error event; a
// partial assessment returned alongside err is kept for diagnostics.
func NewAssessmentEvent(requestID string, a *Assessment, err error) AssessmentEvent {
	ev := AssessmentEvent{
		RequestID:   requestID,
		Status:      StatusOK,
		Assessment:  a,
		ProcessedAt: clock.Now().UTC(),
	}
	if err != nil {
		ev.Status = StatusError
		ev.Error = NewEventError(err)
	}
	return ev
}

// Code is the error code of an error event, or the assessment outcome of a
// successful one.
func (e AssessmentEvent) Code() string {
	switch {
	case e.Error != nil:
		return e.Error.Code
	case e.Assessment != nil:
		return e.Assessment.Outcome.String()
	default:
		return "none"
	}
}
