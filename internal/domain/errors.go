package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLocationNotFound matches any *LocationNotFoundError via errors.Is.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUnknownAquiferScore is returned when an aquifer composition has no
	// scorable lithology. It fails the feasibility computation.
	ErrUnknownAquiferScore = errors.New("unknown aquifer score")

	// ErrInvalidInput flags request values the scorer cannot work with.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPredictorDisabled is returned when no aquifer predictor is configured.
	ErrPredictorDisabled = errors.New("aquifer predictor disabled")
)

// LocationNotFoundError reports that no rule matched any candidate in a dataset.
type LocationNotFoundError struct {
	Dataset    string
	Candidates []Candidate
}

func (e *LocationNotFoundError) Error() string {
	parts := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		parts = append(parts, fmt.Sprintf("%s=%q", c.Kind, c.Value))
	}
	return fmt.Sprintf("%s data for %s not available", e.Dataset, strings.Join(parts, ", "))
}

// Is lets errors.Is(err, ErrLocationNotFound) match.
func (e *LocationNotFoundError) Is(target error) bool {
	return target == ErrLocationNotFound
}

// ParseError reports a malformed value that was replaced by a documented fallback.
type ParseError struct {
	Field    string
	Value    string
	Fallback string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: using fallback %s", e.Field, e.Value, e.Fallback)
}

// UnknownAquiferError carries the composition that could not be scored.
type UnknownAquiferError struct {
	State       string
	Composition string
}

func (e *UnknownAquiferError) Error() string {
	return fmt.Sprintf("%s for %q (%s)", ErrUnknownAquiferScore, e.Composition, e.State)
}

func (e *UnknownAquiferError) Unwrap() error { return ErrUnknownAquiferScore }

// Error codes shared by the HTTP and streaming transports.
const (
	CodeLocationNotFound = "location_not_found"
	CodeUnknownAquifer   = "unknown_aquifer_score"
	CodeInvalidInput     = "invalid_input"
	CodeParseError       = "parse_error"
	CodeInternal         = "internal"
)

// ErrorCode classifies err for clients. Errors outside the domain are internal.
func ErrorCode(err error) string {
	var pe *ParseError
	switch {
	case errors.Is(err, ErrLocationNotFound):
		return CodeLocationNotFound
	case errors.Is(err, ErrUnknownAquiferScore):
		return CodeUnknownAquifer
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.As(err, &pe):
		return CodeParseError
	default:
		return CodeInternal
	}
}
