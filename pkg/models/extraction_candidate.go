package models

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Candidate Kind
// ============================================================================

// CandidateKind identifies the owning context of an extraction candidate.
type CandidateKind string

const (
	// CandidateKindProposalJudge is a judge (voter) extracted from a
	// vote-result page, owned by a proposal.
	CandidateKindProposalJudge CandidateKind = "proposal_judge"
	// CandidateKindConferenceMember is a member extracted from a
	// conference roster page, owned by a conference.
	CandidateKindConferenceMember CandidateKind = "conference_member"
	// CandidateKindGroupMember is a member extracted from a parliamentary
	// group roster page, owned by a group.
	CandidateKindGroupMember CandidateKind = "group_member"
)

// ValidCandidateKinds contains all valid candidate kind values.
var ValidCandidateKinds = []CandidateKind{
	CandidateKindProposalJudge,
	CandidateKindConferenceMember,
	CandidateKindGroupMember,
}

// IsValidCandidateKind checks if the given kind is valid.
func IsValidCandidateKind(k CandidateKind) bool {
	for _, v := range ValidCandidateKinds {
		if v == k {
			return true
		}
	}
	return false
}

// ============================================================================
// Matching Status
// ============================================================================

// MatchingStatus is the resolution state of an extraction candidate.
// Transitions are monotone: pending may move to any resolved status, and
// only needs_review may be re-resolved (by a human) afterwards.
type MatchingStatus string

const (
	MatchingStatusPending     MatchingStatus = "pending"
	MatchingStatusMatched     MatchingStatus = "matched"
	MatchingStatusNeedsReview MatchingStatus = "needs_review"
	MatchingStatusNoMatch     MatchingStatus = "no_match"
)

// ValidMatchingStatuses contains all valid matching status values.
var ValidMatchingStatuses = []MatchingStatus{
	MatchingStatusPending,
	MatchingStatusMatched,
	MatchingStatusNeedsReview,
	MatchingStatusNoMatch,
}

// IsValidMatchingStatus checks if the given status is valid.
func IsValidMatchingStatus(s MatchingStatus) bool {
	for _, v := range ValidMatchingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a candidate in status s may move to next.
func (s MatchingStatus) CanTransitionTo(next MatchingStatus) bool {
	switch s {
	case MatchingStatusPending:
		return next == MatchingStatusMatched ||
			next == MatchingStatusNeedsReview ||
			next == MatchingStatusNoMatch
	case MatchingStatusNeedsReview:
		// Manual review may confirm or reject, nothing else.
		return next == MatchingStatusMatched || next == MatchingStatusNoMatch
	case MatchingStatusMatched, MatchingStatusNoMatch:
		return false
	default:
		return false
	}
}

// ============================================================================
// Extraction Candidate
// ============================================================================

// ExtractionCandidate is an extracted-but-unconfirmed entity awaiting
// resolution to a canonical record. The extracted payload is immutable once
// created; only the resolution fields change, and only through a matching
// pass or a manual review action.
type ExtractionCandidate struct {
	ID        int64         `json:"id"`
	Kind      CandidateKind `json:"kind"`
	ContextID int64         `json:"context_id"` // proposal, conference or group id, per Kind

	// Extracted payload
	Name        string    `json:"name"`
	Party       *string   `json:"party,omitempty"`
	Role        *string   `json:"role,omitempty"`
	District    *string   `json:"district,omitempty"`
	SourceURL   *string   `json:"source_url,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`

	// Resolution fields
	MatchedPoliticianID *int64          `json:"matched_politician_id,omitempty"`
	MatchedGroupID      *int64          `json:"matched_group_id,omitempty"`
	Confidence          *float64        `json:"confidence,omitempty"` // 0.0-1.0
	MatchingStatus      MatchingStatus  `json:"matching_status"`
	MatchedAt           *time.Time      `json:"matched_at,omitempty"`
	AdditionalData      json.RawMessage `json:"additional_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending returns true if the candidate has not been through a matching pass.
func (c *ExtractionCandidate) IsPending() bool {
	return c.MatchingStatus == MatchingStatusPending
}

// NeedsReview returns true if the candidate is parked for human review.
func (c *ExtractionCandidate) NeedsReview() bool {
	return c.MatchingStatus == MatchingStatusNeedsReview
}

// IsConvertible returns true if the candidate satisfies the conversion
// precondition: matched status with a canonical id attached.
func (c *ExtractionCandidate) IsConvertible() bool {
	return c.MatchingStatus == MatchingStatusMatched && c.MatchedPoliticianID != nil
}
