package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/config"
	"github.com/gikai-lab/minutes-engine/pkg/metrics"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/oracle"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
	"github.com/gikai-lab/minutes-engine/pkg/textutil"
)

// ambiguousConfidenceCap bounds oracle confidence when the rule-based
// lookup found multiple exact name hits. An oracle cannot be more certain
// than the record it disambiguated between.
const ambiguousConfidenceCap = 0.9

// MatchResult summarizes one MatchAll pass. Per-candidate failures are
// collected rather than aborting the batch.
type MatchResult struct {
	Processed   int      `json:"processed"`
	Matched     int      `json:"matched"`
	NeedsReview int      `json:"needs_review"`
	NoMatch     int      `json:"no_match"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors,omitempty"`
}

// Matcher resolves pending extraction candidates against the canonical
// politician roster.
type Matcher interface {
	// MatchOne resolves a single candidate and persists the outcome.
	// Returns the updated candidate.
	MatchOne(ctx context.Context, candidateID int64) (*models.ExtractionCandidate, error)

	// MatchAll resolves every pending candidate of the given kind,
	// optionally scoped to one owning context. Failures on individual
	// candidates are recorded in the result; earlier resolutions stand.
	MatchAll(ctx context.Context, kind models.CandidateKind, contextID *int64) (*MatchResult, error)

	// ResolveReview applies a manual decision to a needs_review candidate.
	ResolveReview(ctx context.Context, candidateID int64, status models.MatchingStatus, politicianID *int64) (*models.ExtractionCandidate, error)
}

type matcher struct {
	candidates  repositories.CandidateRepository
	politicians repositories.PoliticianRepository
	oracle      oracle.MatchOracle
	cfg         config.MatcherConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewMatcher creates a new Matcher.
func NewMatcher(
	candidates repositories.CandidateRepository,
	politicians repositories.PoliticianRepository,
	matchOracle oracle.MatchOracle,
	cfg config.MatcherConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) Matcher {
	return &matcher{
		candidates:  candidates,
		politicians: politicians,
		oracle:      matchOracle,
		cfg:         cfg,
		metrics:     m,
		logger:      logger,
	}
}

var _ Matcher = (*matcher)(nil)

func (s *matcher) MatchOne(ctx context.Context, candidateID int64) (*models.ExtractionCandidate, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.IsPending() {
		return nil, apperrors.Conflictf("candidate %d is %s, not pending", candidateID, candidate.MatchingStatus)
	}

	res, err := s.resolve(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if err := s.candidates.UpdateResolution(ctx, candidate.ID, *res); err != nil {
		return nil, err
	}

	s.metrics.IncrementMatchOutcome(string(candidate.Kind), string(res.Status))
	s.logger.Info("resolved candidate",
		zap.Int64("candidate_id", candidate.ID),
		zap.String("kind", string(candidate.Kind)),
		zap.String("status", string(res.Status)))

	return s.candidates.GetByID(ctx, candidate.ID)
}

func (s *matcher) MatchAll(ctx context.Context, kind models.CandidateKind, contextID *int64) (*MatchResult, error) {
	if !models.IsValidCandidateKind(kind) {
		return nil, apperrors.Validationf("invalid candidate kind %q", kind)
	}

	pending, err := s.candidates.GetPending(ctx, kind, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending candidates: %w", err)
	}

	result := &MatchResult{}
	for _, candidate := range pending {
		result.Processed++

		res, err := s.resolve(ctx, candidate)
		if err == nil {
			err = s.candidates.UpdateResolution(ctx, candidate.ID, *res)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("candidate %d: %v", candidate.ID, err))
			s.logger.Warn("failed to resolve candidate",
				zap.Int64("candidate_id", candidate.ID),
				zap.Error(err))
			continue
		}

		s.metrics.IncrementMatchOutcome(string(candidate.Kind), string(res.Status))
		switch res.Status {
		case models.MatchingStatusMatched:
			result.Matched++
		case models.MatchingStatusNeedsReview:
			result.NeedsReview++
		case models.MatchingStatusNoMatch:
			result.NoMatch++
		}
	}

	s.logger.Info("matching pass complete",
		zap.String("kind", string(kind)),
		zap.Int("processed", result.Processed),
		zap.Int("matched", result.Matched),
		zap.Int("needs_review", result.NeedsReview),
		zap.Int("no_match", result.NoMatch),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *matcher) ResolveReview(ctx context.Context, candidateID int64, status models.MatchingStatus, politicianID *int64) (*models.ExtractionCandidate, error) {
	if status != models.MatchingStatusMatched && status != models.MatchingStatusNoMatch {
		return nil, apperrors.Validationf("resolution status must be matched or no_match, got %q", status)
	}
	if status == models.MatchingStatusMatched && politicianID == nil {
		return nil, apperrors.Validationf("matched resolution requires a politician id")
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.MatchingStatus.CanTransitionTo(status) {
		return nil, apperrors.Conflictf("candidate %d is %s and cannot move to %s", candidateID, candidate.MatchingStatus, status)
	}

	res := repositories.Resolution{Status: status}
	if status == models.MatchingStatusMatched {
		politician, err := s.politicians.GetByID(ctx, *politicianID)
		if err != nil {
			return nil, fmt.Errorf("failed to load politician: %w", err)
		}
		if politician == nil {
			return nil, apperrors.NotFoundf("politician %d not found", *politicianID)
		}
		confidence := 1.0 // human decision
		res.PoliticianID = politicianID
		res.Confidence = &confidence
	} else {
		confidence := 0.0
		res.Confidence = &confidence
	}

	if err := s.candidates.UpdateResolution(ctx, candidateID, res); err != nil {
		return nil, err
	}

	s.metrics.IncrementMatchOutcome(string(candidate.Kind), string(status))
	s.logger.Info("manually resolved candidate",
		zap.Int64("candidate_id", candidateID),
		zap.String("status", string(status)))

	return s.candidates.GetByID(ctx, candidateID)
}

// resolve computes a resolution without persisting it.
func (s *matcher) resolve(ctx context.Context, candidate *models.ExtractionCandidate) (*repositories.Resolution, error) {
	hits, err := s.lookupExact(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if len(hits) == 1 {
		confidence := 1.0
		return &repositories.Resolution{
			PoliticianID: &hits[0].ID,
			Confidence:   &confidence,
			Status:       models.MatchingStatusMatched,
		}, nil
	}

	// Zero or multiple exact hits: ask the oracle.
	start := time.Now()
	verdict, err := s.oracle.Propose(ctx, candidate.Name, candidate.Party)
	s.metrics.ObserveOracleLatency(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("oracle proposal failed: %w", err)
	}

	confidence := 0.0
	var politicianID *int64
	if verdict != nil {
		confidence = verdict.Confidence
		politicianID = verdict.PoliticianID
	}
	if politicianID == nil {
		// A verdict without an id carries no meaningful score.
		confidence = 0
	}
	if len(hits) > 1 && confidence > ambiguousConfidenceCap {
		confidence = ambiguousConfidenceCap
	}

	if politicianID != nil {
		politician, err := s.politicians.GetByID(ctx, *politicianID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify proposed politician: %w", err)
		}
		if politician == nil {
			// The oracle named an id that does not exist. Treat as no match.
			s.logger.Warn("oracle proposed unknown politician",
				zap.Int64("candidate_id", candidate.ID),
				zap.Int64("politician_id", *politicianID))
			politicianID = nil
		}
	}

	res := &repositories.Resolution{}
	switch {
	case politicianID != nil && confidence >= s.cfg.MatchThreshold:
		res.Status = models.MatchingStatusMatched
		res.PoliticianID = politicianID
		res.Confidence = &confidence
	case politicianID != nil && confidence >= s.cfg.ReviewThreshold:
		res.Status = models.MatchingStatusNeedsReview
		res.PoliticianID = politicianID
		res.Confidence = &confidence
	default:
		// Id cleared; the oracle's score is kept for the audit trail,
		// 0.0 when it offered nothing.
		res.Status = models.MatchingStatusNoMatch
		res.Confidence = &confidence
	}
	return res, nil
}

// lookupExact runs the rule-based stage: exact match on the normalized
// name, narrowed by party when the candidate carries one.
func (s *matcher) lookupExact(ctx context.Context, candidate *models.ExtractionCandidate) ([]*models.Politician, error) {
	name := textutil.SpeakerKey(candidate.Name)
	if name == "" {
		return nil, apperrors.Validationf("candidate %d has an empty name after normalization", candidate.ID)
	}

	hits, err := s.politicians.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up politicians by name: %w", err)
	}

	if candidate.Party == nil {
		return hits, nil
	}
	var filtered []*models.Politician
	for _, p := range hits {
		if p.Party != nil && *p.Party == *candidate.Party {
			filtered = append(filtered, p)
		}
	}
	// A party filter that eliminates everything falls back to the raw
	// name hits so the oracle still sees them as ambiguity.
	if len(filtered) == 0 {
		return hits, nil
	}
	return filtered, nil
}
