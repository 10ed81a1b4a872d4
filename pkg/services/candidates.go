package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
)

// CandidateIntake is the write-side entry point for extraction output and
// the query surface the review screens read from.
type CandidateIntake interface {
	// Submit stores a batch of freshly extracted candidates
	// all-or-nothing and returns them with ids assigned, in input order.
	Submit(ctx context.Context, candidates []*models.ExtractionCandidate) ([]*models.ExtractionCandidate, error)

	// ListByContext returns a context's candidates in creation order,
	// optionally filtered to one status.
	ListByContext(ctx context.Context, kind models.CandidateKind, contextID int64, status *models.MatchingStatus) ([]*models.ExtractionCandidate, error)

	Get(ctx context.Context, id int64) (*models.ExtractionCandidate, error)
}

type candidateIntake struct {
	tx         TxRunner
	candidates repositories.CandidateRepository
	logger     *zap.Logger
}

// NewCandidateIntake creates a new CandidateIntake.
func NewCandidateIntake(
	tx TxRunner,
	candidates repositories.CandidateRepository,
	logger *zap.Logger,
) CandidateIntake {
	return &candidateIntake{
		tx:         tx,
		candidates: candidates,
		logger:     logger,
	}
}

var _ CandidateIntake = (*candidateIntake)(nil)

func (s *candidateIntake) Submit(ctx context.Context, candidates []*models.ExtractionCandidate) ([]*models.ExtractionCandidate, error) {
	if len(candidates) == 0 {
		return nil, apperrors.Validationf("empty candidate batch")
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.candidates.BulkCreate(ctx, candidates)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store candidate batch: %w", err)
	}

	s.logger.Info("stored candidate batch",
		zap.String("kind", string(candidates[0].Kind)),
		zap.Int("count", len(candidates)))

	return candidates, nil
}

func (s *candidateIntake) ListByContext(ctx context.Context, kind models.CandidateKind, contextID int64, status *models.MatchingStatus) ([]*models.ExtractionCandidate, error) {
	if !models.IsValidCandidateKind(kind) {
		return nil, apperrors.Validationf("invalid candidate kind %q", kind)
	}
	if status != nil && !models.IsValidMatchingStatus(*status) {
		return nil, apperrors.Validationf("invalid matching status %q", *status)
	}

	all, err := s.candidates.GetByContext(ctx, kind, contextID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return all, nil
	}

	var filtered []*models.ExtractionCandidate
	for _, c := range all {
		if c.MatchingStatus == *status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *candidateIntake) Get(ctx context.Context, id int64) (*models.ExtractionCandidate, error) {
	return s.candidates.GetByID(ctx, id)
}
