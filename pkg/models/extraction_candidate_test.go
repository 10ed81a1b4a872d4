package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMatchingStatus(t *testing.T) {
	for _, s := range ValidMatchingStatuses {
		assert.True(t, IsValidMatchingStatus(s))
	}
	assert.False(t, IsValidMatchingStatus("unmatched"))
	assert.False(t, IsValidMatchingStatus(""))
}

func TestMatchingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    MatchingStatus
		to      MatchingStatus
		allowed bool
	}{
		{MatchingStatusPending, MatchingStatusMatched, true},
		{MatchingStatusPending, MatchingStatusNeedsReview, true},
		{MatchingStatusPending, MatchingStatusNoMatch, true},
		{MatchingStatusPending, MatchingStatusPending, false},
		{MatchingStatusNeedsReview, MatchingStatusMatched, true},
		{MatchingStatusNeedsReview, MatchingStatusNoMatch, true},
		{MatchingStatusNeedsReview, MatchingStatusPending, false},
		{MatchingStatusMatched, MatchingStatusNoMatch, false},
		{MatchingStatusMatched, MatchingStatusPending, false},
		{MatchingStatusNoMatch, MatchingStatusMatched, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsConvertible(t *testing.T) {
	pid := int64(10)

	c := &ExtractionCandidate{MatchingStatus: MatchingStatusMatched, MatchedPoliticianID: &pid}
	assert.True(t, c.IsConvertible())

	// Matched without a canonical id violates the invariant and must not convert.
	c = &ExtractionCandidate{MatchingStatus: MatchingStatusMatched}
	assert.False(t, c.IsConvertible())

	c = &ExtractionCandidate{MatchingStatus: MatchingStatusNeedsReview, MatchedPoliticianID: &pid}
	assert.False(t, c.IsConvertible())
}

func TestIsValidCandidateKind(t *testing.T) {
	for _, k := range ValidCandidateKinds {
		assert.True(t, IsValidCandidateKind(k))
	}
	assert.False(t, IsValidCandidateKind("judge"))
}
