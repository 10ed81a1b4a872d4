package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// ProposalJudgeRepository provides data access for proposal judge records.
type ProposalJudgeRepository interface {
	Create(ctx context.Context, judge *models.ProposalJudge) error
	// Exists reports whether a judge record already exists for the
	// (proposal, politician) pair. Uniqueness is enforced here, at the
	// application layer, before insert.
	Exists(ctx context.Context, proposalID, politicianID int64) (bool, error)
	GetByProposal(ctx context.Context, proposalID int64) ([]*models.ProposalJudge, error)
}

type proposalJudgeRepository struct{}

// NewProposalJudgeRepository creates a new ProposalJudgeRepository.
func NewProposalJudgeRepository() ProposalJudgeRepository {
	return &proposalJudgeRepository{}
}

var _ ProposalJudgeRepository = (*proposalJudgeRepository)(nil)

func (r *proposalJudgeRepository) Create(ctx context.Context, judge *models.ProposalJudge) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	judge.CreatedAt = time.Now()

	query := `
		INSERT INTO proposal_judges (proposal_id, politician_id, judgment, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		judge.ProposalID, judge.PoliticianID, judge.Judgment, judge.CreatedAt,
	).Scan(&judge.ID)
	if err != nil {
		return fmt.Errorf("failed to create proposal judge: %w", err)
	}
	return nil
}

func (r *proposalJudgeRepository) Exists(ctx context.Context, proposalID, politicianID int64) (bool, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return false, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM proposal_judges
			WHERE proposal_id = $1 AND politician_id = $2
		)`

	var exists bool
	if err := q.QueryRow(ctx, query, proposalID, politicianID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check proposal judge existence: %w", err)
	}
	return exists, nil
}

func (r *proposalJudgeRepository) GetByProposal(ctx context.Context, proposalID int64) ([]*models.ProposalJudge, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, proposal_id, politician_id, judgment, created_at
		FROM proposal_judges
		WHERE proposal_id = $1
		ORDER BY id ASC`

	rows, err := q.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposal judges: %w", err)
	}
	defer rows.Close()

	return scanProposalJudgeRows(rows)
}

func scanProposalJudgeRows(rows pgx.Rows) ([]*models.ProposalJudge, error) {
	var judges []*models.ProposalJudge

	for rows.Next() {
		var j models.ProposalJudge
		if err := rows.Scan(&j.ID, &j.ProposalID, &j.PoliticianID, &j.Judgment, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proposal judge row: %w", err)
		}
		judges = append(judges, &j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proposal judge rows: %w", err)
	}

	return judges, nil
}
