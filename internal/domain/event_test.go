package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&LocationNotFoundError{Dataset: DatasetRainfall}, CodeLocationNotFound},
		{fmt.Errorf("assess: %w", &UnknownAquiferError{State: "Mizoram"}), CodeUnknownAquifer},
		{fmt.Errorf("%w: roofArea", ErrInvalidInput), CodeInvalidInput},
		{&ParseError{Field: "normal rainfall"}, CodeParseError},
		{errors.New("disk full"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), tt.err.Error())
	}
}

func TestNewAssessmentEvent(t *testing.T) {
	now := frozenClock(t)

	ok := NewAssessmentEvent("req-1", &Assessment{District: "Bhopal"}, nil)
	assert.Equal(t, StatusOK, ok.Status)
	assert.Nil(t, ok.Error)
	assert.Equal(t, now, ok.ProcessedAt)

	nf := &LocationNotFoundError{
		Dataset:    DatasetAquifer,
		Candidates: AquiferCandidates("New Delhi", "Delhi"),
	}
	failed := NewAssessmentEvent("req-2", nil, nf)
	assert.Equal(t, StatusError, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, CodeLocationNotFound, failed.Error.Code)
	assert.Equal(t, DatasetAquifer, failed.Error.Dataset)
	assert.Len(t, failed.Error.Candidates, 2)
	assert.Nil(t, failed.Assessment)
}

func TestAssessmentEvent_Code(t *testing.T) {
	frozenClock(t)

	assert.Equal(t, "scored", NewAssessmentEvent("a", &Assessment{Outcome: OutcomeScored}, nil).Code())
	assert.Equal(t, "infeasible", NewAssessmentEvent("b", &Assessment{Outcome: OutcomeInfeasible}, nil).Code())
	unknown := NewAssessmentEvent("c", &Assessment{Outcome: OutcomeUnknownAquifer}, &UnknownAquiferError{State: "Mizoram"})
	assert.Equal(t, CodeUnknownAquifer, unknown.Code())
	assert.Equal(t, "none", AssessmentEvent{}.Code())
}

func TestAssessmentEventDecodes(t *testing.T) {
	frozenClock(t)
	a, err := NewAssessor(testIndex(t), 0).Assess(AssessmentRequest{
		District: "Bhopal", State: "Madhya Pradesh",
		RoofAreaM2: 100, RoofType: "CONCRETE", Dwellers: 4,
	})
	require.NoError(t, err)

	data, err := json.Marshal(NewAssessmentEvent("req-1", &a, nil))
	require.NoError(t, err)

	var got AssessmentEvent
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.Assessment)
	assert.Equal(t, OutcomeScored, got.Assessment.Outcome)
	assert.Equal(t, a.RainfallCategory, got.Assessment.RainfallCategory)
	assert.Equal(t, a.PreMonsoonCategory, got.Assessment.PreMonsoonCategory)
	assert.Equal(t, a.AquiferScore, got.Assessment.AquiferScore)
}

func TestOutcomeUnmarshalRejectsUnknown(t *testing.T) {
	var o Outcome
	assert.Error(t, o.UnmarshalText([]byte("maybe")))
}
