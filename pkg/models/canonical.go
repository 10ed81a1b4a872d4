package models

import "time"

// ============================================================================
// Judgment
// ============================================================================

// Judgment is a proposal judge's recorded vote.
type Judgment string

const (
	JudgmentApprove Judgment = "approve"
	JudgmentOppose  Judgment = "oppose"
	JudgmentAbstain Judgment = "abstain"
	JudgmentAbsent  Judgment = "absent"
)

// ValidJudgments contains all valid judgment values.
var ValidJudgments = []Judgment{
	JudgmentApprove,
	JudgmentOppose,
	JudgmentAbstain,
	JudgmentAbsent,
}

// IsValidJudgment checks if the given judgment is valid.
func IsValidJudgment(j Judgment) bool {
	for _, v := range ValidJudgments {
		if v == j {
			return true
		}
	}
	return false
}

// ============================================================================
// Canonical Records
// ============================================================================

// ProposalJudge is the authoritative record of a politician's vote on a
// proposal. At most one exists per (proposal, politician) pair.
type ProposalJudge struct {
	ID           int64     `json:"id"`
	ProposalID   int64     `json:"proposal_id"`
	PoliticianID int64     `json:"politician_id"`
	Judgment     *Judgment `json:"judgment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PoliticianAffiliation records a politician's membership of a conference
// over a date range. EndDate nil means the affiliation is still open.
type PoliticianAffiliation struct {
	ID           int64      `json:"id"`
	ConferenceID int64      `json:"conference_id"`
	PoliticianID int64      `json:"politician_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Role         *string    `json:"role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Overlaps reports whether the affiliation's date range intersects
// [start, end). A nil end on either side means open-ended.
func (a *PoliticianAffiliation) Overlaps(start time.Time, end *time.Time) bool {
	return rangesOverlap(a.StartDate, a.EndDate, start, end)
}

// GroupMembership records a politician's membership of a parliamentary
// group over a date range.
type GroupMembership struct {
	ID           int64      `json:"id"`
	GroupID      int64      `json:"group_id"`
	PoliticianID int64      `json:"politician_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Role         *string    `json:"role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Overlaps reports whether the membership's date range intersects
// [start, end). A nil end on either side means open-ended.
func (m *GroupMembership) Overlaps(start time.Time, end *time.Time) bool {
	return rangesOverlap(m.StartDate, m.EndDate, start, end)
}

// rangesOverlap implements half-open interval intersection with optional
// open ends. Two open-ended ranges always overlap once their starts allow it.
func rangesOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && !bStart.Before(*aEnd) {
		return false
	}
	if bEnd != nil && !aStart.Before(*bEnd) {
		return false
	}
	return true
}
