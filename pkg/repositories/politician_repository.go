package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// PoliticianRepository is the canonical-entity repository for politicians.
// Names are stored NFKC-normalized; FindByName is an exact match on that
// normalized form.
type PoliticianRepository interface {
	Create(ctx context.Context, politician *models.Politician) error
	GetByID(ctx context.Context, id int64) (*models.Politician, error)
	FindByName(ctx context.Context, name string) ([]*models.Politician, error)
	List(ctx context.Context) ([]*models.Politician, error)
}

type politicianRepository struct{}

// NewPoliticianRepository creates a new PoliticianRepository.
func NewPoliticianRepository() PoliticianRepository {
	return &politicianRepository{}
}

var _ PoliticianRepository = (*politicianRepository)(nil)

func (r *politicianRepository) Create(ctx context.Context, politician *models.Politician) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	query := `
		INSERT INTO politicians (name, party, district)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := q.QueryRow(ctx, query, politician.Name, politician.Party, politician.District).Scan(&politician.ID)
	if err != nil {
		return fmt.Errorf("failed to create politician: %w", err)
	}
	return nil
}

func (r *politicianRepository) GetByID(ctx context.Context, id int64) (*models.Politician, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `SELECT id, name, party, district FROM politicians WHERE id = $1`

	var p models.Politician
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Party, &p.District)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get politician: %w", err)
	}
	return &p, nil
}

func (r *politicianRepository) FindByName(ctx context.Context, name string) ([]*models.Politician, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `SELECT id, name, party, district FROM politicians WHERE name = $1 ORDER BY id ASC`

	rows, err := q.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query politicians by name: %w", err)
	}
	defer rows.Close()

	return scanPoliticianRows(rows)
}

func (r *politicianRepository) List(ctx context.Context) ([]*models.Politician, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := q.Query(ctx, `SELECT id, name, party, district FROM politicians ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list politicians: %w", err)
	}
	defer rows.Close()

	return scanPoliticianRows(rows)
}

func scanPoliticianRows(rows pgx.Rows) ([]*models.Politician, error) {
	var politicians []*models.Politician

	for rows.Next() {
		var p models.Politician
		if err := rows.Scan(&p.ID, &p.Name, &p.Party, &p.District); err != nil {
			return nil, fmt.Errorf("failed to scan politician row: %w", err)
		}
		politicians = append(politicians, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating politician rows: %w", err)
	}

	return politicians, nil
}
