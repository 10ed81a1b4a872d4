package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/metrics"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
)

// BatchResult summarizes one conversion pass over a context's matched
// candidates.
type BatchResult struct {
	Created        int      `json:"created"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	CreatedRecords []int64  `json:"created_records,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// ConvertedRecord is the unpersisted canonical record built from one
// candidate. Exactly one field is set, according to the candidate's kind.
type ConvertedRecord struct {
	Judge       *models.ProposalJudge
	Affiliation *models.PoliticianAffiliation
	Membership  *models.GroupMembership
}

// Converter turns matched extraction candidates into canonical records.
// Conversion is re-runnable: a record that already exists is skipped, so a
// second pass over the same candidates creates nothing.
type Converter interface {
	// ConvertOne builds the canonical record for a single candidate
	// without persisting it. The date range applies to the date-ranged
	// kinds and is ignored for proposal judges.
	ConvertOne(ctx context.Context, candidateID int64, startDate time.Time, endDate *time.Time) (*ConvertedRecord, error)

	// ConvertJudges converts matched proposal-judge candidates for one
	// proposal into proposal_judges rows.
	ConvertJudges(ctx context.Context, proposalID int64) (*BatchResult, error)

	// ConvertAffiliations converts matched conference-member candidates
	// for one conference into politician_affiliations rows.
	ConvertAffiliations(ctx context.Context, conferenceID int64, startDate time.Time, endDate *time.Time) (*BatchResult, error)

	// ConvertMemberships converts matched group-member candidates for one
	// parliamentary group into group_memberships rows.
	ConvertMemberships(ctx context.Context, groupID int64, startDate time.Time, endDate *time.Time) (*BatchResult, error)
}

type converter struct {
	candidates   repositories.CandidateRepository
	judges       repositories.ProposalJudgeRepository
	affiliations repositories.PoliticianAffiliationRepository
	memberships  repositories.GroupMembershipRepository
	groups       repositories.ParliamentaryGroupRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewConverter creates a new Converter.
func NewConverter(
	candidates repositories.CandidateRepository,
	judges repositories.ProposalJudgeRepository,
	affiliations repositories.PoliticianAffiliationRepository,
	memberships repositories.GroupMembershipRepository,
	groups repositories.ParliamentaryGroupRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) Converter {
	return &converter{
		candidates:   candidates,
		judges:       judges,
		affiliations: affiliations,
		memberships:  memberships,
		groups:       groups,
		metrics:      m,
		logger:       logger,
	}
}

var _ Converter = (*converter)(nil)

func (s *converter) ConvertOne(ctx context.Context, candidateID int64, startDate time.Time, endDate *time.Time) (*ConvertedRecord, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.IsConvertible() {
		return nil, apperrors.InvalidStatef("cannot convert unmatched candidate")
	}

	switch candidate.Kind {
	case models.CandidateKindProposalJudge:
		judge, err := buildJudge(candidate.ContextID, candidate)
		if err != nil {
			return nil, err
		}
		return &ConvertedRecord{Judge: judge}, nil
	case models.CandidateKindConferenceMember:
		return &ConvertedRecord{Affiliation: &models.PoliticianAffiliation{
			ConferenceID: candidate.ContextID,
			PoliticianID: *candidate.MatchedPoliticianID,
			StartDate:    startDate,
			EndDate:      endDate,
			Role:         candidate.Role,
		}}, nil
	case models.CandidateKindGroupMember:
		return &ConvertedRecord{Membership: &models.GroupMembership{
			GroupID:      candidate.ContextID,
			PoliticianID: *candidate.MatchedPoliticianID,
			StartDate:    startDate,
			EndDate:      endDate,
			Role:         candidate.Role,
		}}, nil
	default:
		return nil, apperrors.Validationf("invalid candidate kind %q", candidate.Kind)
	}
}

func (s *converter) ConvertJudges(ctx context.Context, proposalID int64) (*BatchResult, error) {
	return s.convert(ctx, models.CandidateKindProposalJudge, proposalID,
		func(ctx context.Context, c *models.ExtractionCandidate) (bool, int64, error) {
			exists, err := s.judges.Exists(ctx, proposalID, *c.MatchedPoliticianID)
			if err != nil {
				return false, 0, err
			}
			if exists {
				return false, 0, nil
			}
			judge, err := buildJudge(proposalID, c)
			if err != nil {
				return false, 0, err
			}
			if err := s.judges.Create(ctx, judge); err != nil {
				return false, 0, err
			}
			return true, judge.ID, nil
		})
}

func (s *converter) ConvertAffiliations(ctx context.Context, conferenceID int64, startDate time.Time, endDate *time.Time) (*BatchResult, error) {
	return s.convert(ctx, models.CandidateKindConferenceMember, conferenceID,
		func(ctx context.Context, c *models.ExtractionCandidate) (bool, int64, error) {
			existing, err := s.affiliations.GetByConferenceAndPolitician(ctx, conferenceID, *c.MatchedPoliticianID)
			if err != nil {
				return false, 0, err
			}
			for _, a := range existing {
				if a.Overlaps(startDate, endDate) {
					return false, 0, nil
				}
			}
			affiliation := &models.PoliticianAffiliation{
				ConferenceID: conferenceID,
				PoliticianID: *c.MatchedPoliticianID,
				StartDate:    startDate,
				EndDate:      endDate,
				Role:         c.Role,
			}
			if err := s.affiliations.Create(ctx, affiliation); err != nil {
				return false, 0, err
			}
			return true, affiliation.ID, nil
		})
}

func (s *converter) ConvertMemberships(ctx context.Context, groupID int64, startDate time.Time, endDate *time.Time) (*BatchResult, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parliamentary group: %w", err)
	}
	if group == nil {
		return nil, apperrors.NotFoundf("parliamentary group %d not found", groupID)
	}

	return s.convert(ctx, models.CandidateKindGroupMember, groupID,
		func(ctx context.Context, c *models.ExtractionCandidate) (bool, int64, error) {
			existing, err := s.memberships.GetByGroupAndPolitician(ctx, groupID, *c.MatchedPoliticianID)
			if err != nil {
				return false, 0, err
			}
			for _, m := range existing {
				if m.Overlaps(startDate, endDate) {
					return false, 0, nil
				}
			}
			membership := &models.GroupMembership{
				GroupID:      groupID,
				PoliticianID: *c.MatchedPoliticianID,
				StartDate:    startDate,
				EndDate:      endDate,
				Role:         c.Role,
			}
			if err := s.memberships.Create(ctx, membership); err != nil {
				return false, 0, err
			}
			return true, membership.ID, nil
		})
}

// convert runs the shared batch skeleton: load matched candidates, apply
// the per-kind create-or-skip step, aggregate outcomes. The candidate
// rows are retained after conversion as the audit trail.
func (s *converter) convert(
	ctx context.Context,
	kind models.CandidateKind,
	contextID int64,
	step func(ctx context.Context, c *models.ExtractionCandidate) (created bool, recordID int64, err error),
) (*BatchResult, error) {
	matched, err := s.candidates.GetMatched(ctx, kind, &contextID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched candidates: %w", err)
	}

	result := &BatchResult{}
	for _, candidate := range matched {
		if !candidate.IsConvertible() {
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("candidate %d: %v", candidate.ID,
					apperrors.InvalidStatef("cannot convert unmatched candidate")))
			s.metrics.IncrementConversionOutcome(string(kind), "failed")
			continue
		}

		created, recordID, err := step(ctx, candidate)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("candidate %d: %v", candidate.ID, err))
			s.metrics.IncrementConversionOutcome(string(kind), "failed")
			s.logger.Warn("failed to convert candidate",
				zap.Int64("candidate_id", candidate.ID),
				zap.Error(err))
		case created:
			result.Created++
			result.CreatedRecords = append(result.CreatedRecords, recordID)
			s.metrics.IncrementConversionOutcome(string(kind), "created")
		default:
			result.Skipped++
			s.metrics.IncrementConversionOutcome(string(kind), "skipped")
		}
	}

	s.logger.Info("conversion pass complete",
		zap.String("kind", string(kind)),
		zap.Int64("context_id", contextID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

// buildJudge materializes a proposal judge from a convertible candidate.
func buildJudge(proposalID int64, c *models.ExtractionCandidate) (*models.ProposalJudge, error) {
	judge := &models.ProposalJudge{
		ProposalID:   proposalID,
		PoliticianID: *c.MatchedPoliticianID,
	}
	if c.Role != nil {
		j := models.Judgment(*c.Role)
		if !models.IsValidJudgment(j) {
			return nil, apperrors.Validationf("unknown judgment %q", *c.Role)
		}
		judge.Judgment = &j
	}
	return judge, nil
}
