package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// PoliticianAffiliationRepository provides data access for conference
// affiliation records.
type PoliticianAffiliationRepository interface {
	Create(ctx context.Context, affiliation *models.PoliticianAffiliation) error
	// GetByConferenceAndPolitician returns every affiliation for the pair,
	// open-ended ones included. Callers check temporal overlap themselves.
	GetByConferenceAndPolitician(ctx context.Context, conferenceID, politicianID int64) ([]*models.PoliticianAffiliation, error)
}

type politicianAffiliationRepository struct{}

// NewPoliticianAffiliationRepository creates a new PoliticianAffiliationRepository.
func NewPoliticianAffiliationRepository() PoliticianAffiliationRepository {
	return &politicianAffiliationRepository{}
}

var _ PoliticianAffiliationRepository = (*politicianAffiliationRepository)(nil)

func (r *politicianAffiliationRepository) Create(ctx context.Context, affiliation *models.PoliticianAffiliation) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	affiliation.CreatedAt = time.Now()

	query := `
		INSERT INTO politician_affiliations (conference_id, politician_id, start_date, end_date, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		affiliation.ConferenceID, affiliation.PoliticianID,
		affiliation.StartDate, affiliation.EndDate, affiliation.Role,
		affiliation.CreatedAt,
	).Scan(&affiliation.ID)
	if err != nil {
		return fmt.Errorf("failed to create politician affiliation: %w", err)
	}
	return nil
}

func (r *politicianAffiliationRepository) GetByConferenceAndPolitician(ctx context.Context, conferenceID, politicianID int64) ([]*models.PoliticianAffiliation, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, conference_id, politician_id, start_date, end_date, role, created_at
		FROM politician_affiliations
		WHERE conference_id = $1 AND politician_id = $2
		ORDER BY start_date ASC`

	rows, err := q.Query(ctx, query, conferenceID, politicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to query politician affiliations: %w", err)
	}
	defer rows.Close()

	return scanAffiliationRows(rows)
}

func scanAffiliationRows(rows pgx.Rows) ([]*models.PoliticianAffiliation, error) {
	var affiliations []*models.PoliticianAffiliation

	for rows.Next() {
		var a models.PoliticianAffiliation
		err := rows.Scan(
			&a.ID, &a.ConferenceID, &a.PoliticianID,
			&a.StartDate, &a.EndDate, &a.Role, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan politician affiliation row: %w", err)
		}
		affiliations = append(affiliations, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating politician affiliation rows: %w", err)
	}

	return affiliations, nil
}
