package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// GroupMembershipRepository provides data access for parliamentary group
// membership records.
type GroupMembershipRepository interface {
	Create(ctx context.Context, membership *models.GroupMembership) error
	// GetByGroupAndPolitician returns every membership for the pair.
	// Callers check temporal overlap themselves.
	GetByGroupAndPolitician(ctx context.Context, groupID, politicianID int64) ([]*models.GroupMembership, error)
}

type groupMembershipRepository struct{}

// NewGroupMembershipRepository creates a new GroupMembershipRepository.
func NewGroupMembershipRepository() GroupMembershipRepository {
	return &groupMembershipRepository{}
}

var _ GroupMembershipRepository = (*groupMembershipRepository)(nil)

func (r *groupMembershipRepository) Create(ctx context.Context, membership *models.GroupMembership) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	membership.CreatedAt = time.Now()

	query := `
		INSERT INTO group_memberships (group_id, politician_id, start_date, end_date, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		membership.GroupID, membership.PoliticianID,
		membership.StartDate, membership.EndDate, membership.Role,
		membership.CreatedAt,
	).Scan(&membership.ID)
	if err != nil {
		return fmt.Errorf("failed to create group membership: %w", err)
	}
	return nil
}

func (r *groupMembershipRepository) GetByGroupAndPolitician(ctx context.Context, groupID, politicianID int64) ([]*models.GroupMembership, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, group_id, politician_id, start_date, end_date, role, created_at
		FROM group_memberships
		WHERE group_id = $1 AND politician_id = $2
		ORDER BY start_date ASC`

	rows, err := q.Query(ctx, query, groupID, politicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group memberships: %w", err)
	}
	defer rows.Close()

	return scanMembershipRows(rows)
}

func scanMembershipRows(rows pgx.Rows) ([]*models.GroupMembership, error) {
	var memberships []*models.GroupMembership

	for rows.Next() {
		var m models.GroupMembership
		err := rows.Scan(
			&m.ID, &m.GroupID, &m.PoliticianID,
			&m.StartDate, &m.EndDate, &m.Role, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group membership row: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group membership rows: %w", err)
	}

	return memberships, nil
}
