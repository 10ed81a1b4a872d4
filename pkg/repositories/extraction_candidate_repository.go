package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// Resolution is the set of fields a matching pass (or a manual review
// action) may change on a candidate.
type Resolution struct {
	PoliticianID *int64
	GroupID      *int64
	Confidence   *float64
	Status       models.MatchingStatus
}

// CandidateRepository is the durable store and query surface for
// extraction candidates.
type CandidateRepository interface {
	// Create persists one candidate with initial status pending and
	// assigns its id.
	Create(ctx context.Context, candidate *models.ExtractionCandidate) error
	// BulkCreate persists a batch, preserving input order in the
	// assigned ids. Run it inside database.WithTx for all-or-nothing
	// semantics; any failure leaves the batch unwritten.
	BulkCreate(ctx context.Context, candidates []*models.ExtractionCandidate) error
	GetByID(ctx context.Context, id int64) (*models.ExtractionCandidate, error)
	// GetByContext returns all candidates for one owning context in
	// creation order.
	GetByContext(ctx context.Context, kind models.CandidateKind, contextID int64) ([]*models.ExtractionCandidate, error)
	// GetPending returns pending candidates of one kind, optionally
	// scoped to a context.
	GetPending(ctx context.Context, kind models.CandidateKind, contextID *int64) ([]*models.ExtractionCandidate, error)
	// GetMatched returns matched candidates of one kind, optionally
	// scoped and filtered by a minimum confidence floor.
	GetMatched(ctx context.Context, kind models.CandidateKind, contextID *int64, minConfidence *float64) ([]*models.ExtractionCandidate, error)
	// UpdateResolution applies a resolution to a single candidate row.
	UpdateResolution(ctx context.Context, id int64, res Resolution) error
	Delete(ctx context.Context, id int64) error
}

type candidateRepository struct{}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository() CandidateRepository {
	return &candidateRepository{}
}

var _ CandidateRepository = (*candidateRepository)(nil)

const candidateColumns = `id, kind, context_id, name, party, role, district, source_url,
       extracted_at, matched_politician_id, matched_group_id, confidence,
       matching_status, matched_at, additional_data, created_at, updated_at`

func validateCandidate(c *models.ExtractionCandidate) error {
	if !models.IsValidCandidateKind(c.Kind) {
		return apperrors.Validationf("invalid candidate kind %q", c.Kind)
	}
	if c.ContextID == 0 {
		return apperrors.Validationf("owning context id is required")
	}
	if c.Name == "" {
		return apperrors.Validationf("candidate name is required")
	}
	return nil
}

func (r *candidateRepository) Create(ctx context.Context, candidate *models.ExtractionCandidate) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	if err := validateCandidate(candidate); err != nil {
		return err
	}

	now := time.Now()
	candidate.MatchingStatus = models.MatchingStatusPending
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	if candidate.ExtractedAt.IsZero() {
		candidate.ExtractedAt = now
	}

	query := `
		INSERT INTO extraction_candidates (
			kind, context_id, name, party, role, district, source_url,
			extracted_at, matching_status, additional_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		candidate.Kind, candidate.ContextID, candidate.Name,
		candidate.Party, candidate.Role, candidate.District, candidate.SourceURL,
		candidate.ExtractedAt, candidate.MatchingStatus, candidate.AdditionalData,
		candidate.CreatedAt, candidate.UpdatedAt,
	).Scan(&candidate.ID)
	if err != nil {
		return fmt.Errorf("failed to create extraction candidate: %w", err)
	}

	return nil
}

func (r *candidateRepository) BulkCreate(ctx context.Context, candidates []*models.ExtractionCandidate) error {
	for _, c := range candidates {
		if err := validateCandidate(c); err != nil {
			return err
		}
	}
	for _, c := range candidates {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*models.ExtractionCandidate, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `SELECT ` + candidateColumns + ` FROM extraction_candidates WHERE id = $1`

	candidate, err := scanCandidateRow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("extraction candidate %d", id)
		}
		return nil, err
	}
	return candidate, nil
}

func (r *candidateRepository) GetByContext(ctx context.Context, kind models.CandidateKind, contextID int64) ([]*models.ExtractionCandidate, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT ` + candidateColumns + `
		FROM extraction_candidates
		WHERE kind = $1 AND context_id = $2
		ORDER BY id ASC`

	rows, err := q.Query(ctx, query, kind, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates by context: %w", err)
	}
	defer rows.Close()

	return scanCandidateRows(rows)
}

func (r *candidateRepository) GetPending(ctx context.Context, kind models.CandidateKind, contextID *int64) ([]*models.ExtractionCandidate, error) {
	return r.getByStatus(ctx, kind, contextID, models.MatchingStatusPending, nil)
}

func (r *candidateRepository) GetMatched(ctx context.Context, kind models.CandidateKind, contextID *int64, minConfidence *float64) ([]*models.ExtractionCandidate, error) {
	return r.getByStatus(ctx, kind, contextID, models.MatchingStatusMatched, minConfidence)
}

func (r *candidateRepository) getByStatus(ctx context.Context, kind models.CandidateKind, contextID *int64, status models.MatchingStatus, minConfidence *float64) ([]*models.ExtractionCandidate, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT ` + candidateColumns + `
		FROM extraction_candidates
		WHERE kind = $1 AND matching_status = $2
		  AND ($3::bigint IS NULL OR context_id = $3)
		  AND ($4::float8 IS NULL OR confidence >= $4)
		ORDER BY id ASC`

	rows, err := q.Query(ctx, query, kind, status, contextID, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates by status: %w", err)
	}
	defer rows.Close()

	return scanCandidateRows(rows)
}

func (r *candidateRepository) UpdateResolution(ctx context.Context, id int64, res Resolution) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	if !models.IsValidMatchingStatus(res.Status) {
		return apperrors.Validationf("invalid matching status %q", res.Status)
	}

	query := `
		UPDATE extraction_candidates
		SET matched_politician_id = $2,
		    matched_group_id = $3,
		    confidence = $4,
		    matching_status = $5,
		    matched_at = CASE WHEN $5 = 'matched' THEN NOW() ELSE matched_at END,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := q.Exec(ctx, query, id, res.PoliticianID, res.GroupID, res.Confidence, res.Status)
	if err != nil {
		return fmt.Errorf("failed to update candidate resolution: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("extraction candidate %d", id)
	}

	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	result, err := q.Exec(ctx, `DELETE FROM extraction_candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete extraction candidate: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFoundf("extraction candidate %d", id)
	}

	return nil
}

// ============================================================================
// Helper Functions - Scan
// ============================================================================

func scanCandidateRow(row pgx.Row) (*models.ExtractionCandidate, error) {
	var c models.ExtractionCandidate

	err := row.Scan(
		&c.ID, &c.Kind, &c.ContextID, &c.Name, &c.Party, &c.Role, &c.District, &c.SourceURL,
		&c.ExtractedAt, &c.MatchedPoliticianID, &c.MatchedGroupID, &c.Confidence,
		&c.MatchingStatus, &c.MatchedAt, &c.AdditionalData, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan extraction candidate: %w", err)
	}

	return &c, nil
}

func scanCandidateRows(rows pgx.Rows) ([]*models.ExtractionCandidate, error) {
	var candidates []*models.ExtractionCandidate

	for rows.Next() {
		var c models.ExtractionCandidate

		err := rows.Scan(
			&c.ID, &c.Kind, &c.ContextID, &c.Name, &c.Party, &c.Role, &c.District, &c.SourceURL,
			&c.ExtractedAt, &c.MatchedPoliticianID, &c.MatchedGroupID, &c.Confidence,
			&c.MatchingStatus, &c.MatchedAt, &c.AdditionalData, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction candidate row: %w", err)
		}

		candidates = append(candidates, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction candidate rows: %w", err)
	}

	return candidates, nil
}
