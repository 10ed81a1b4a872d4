package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// ParliamentaryGroupRepository is the canonical-entity repository for
// parliamentary groups.
type ParliamentaryGroupRepository interface {
	Create(ctx context.Context, group *models.ParliamentaryGroup) error
	GetByID(ctx context.Context, id int64) (*models.ParliamentaryGroup, error)
}

type parliamentaryGroupRepository struct{}

// NewParliamentaryGroupRepository creates a new ParliamentaryGroupRepository.
func NewParliamentaryGroupRepository() ParliamentaryGroupRepository {
	return &parliamentaryGroupRepository{}
}

var _ ParliamentaryGroupRepository = (*parliamentaryGroupRepository)(nil)

func (r *parliamentaryGroupRepository) Create(ctx context.Context, group *models.ParliamentaryGroup) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	query := `
		INSERT INTO parliamentary_groups (name, conference_id)
		VALUES ($1, $2)
		RETURNING id`

	err := q.QueryRow(ctx, query, group.Name, group.ConferenceID).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create parliamentary group: %w", err)
	}
	return nil
}

func (r *parliamentaryGroupRepository) GetByID(ctx context.Context, id int64) (*models.ParliamentaryGroup, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `SELECT id, name, conference_id FROM parliamentary_groups WHERE id = $1`

	var g models.ParliamentaryGroup
	err := q.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.ConferenceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parliamentary group: %w", err)
	}
	return &g, nil
}
