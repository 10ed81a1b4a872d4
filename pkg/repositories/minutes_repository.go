package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// MinutesRepository provides data access for minutes records.
type MinutesRepository interface {
	// Create inserts the minutes row and assigns its id immediately, so
	// child conversations can reference it within the same transaction.
	Create(ctx context.Context, minutes *models.Minutes) error
	GetByMeetingID(ctx context.Context, meetingID int64) (*models.Minutes, error)
	MarkProcessed(ctx context.Context, id int64, processedAt time.Time) error
}

type minutesRepository struct{}

// NewMinutesRepository creates a new MinutesRepository.
func NewMinutesRepository() MinutesRepository {
	return &minutesRepository{}
}

var _ MinutesRepository = (*minutesRepository)(nil)

func (r *minutesRepository) Create(ctx context.Context, minutes *models.Minutes) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	minutes.CreatedAt = time.Now()

	query := `
		INSERT INTO minutes (meeting_id, url, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := q.QueryRow(ctx, query, minutes.MeetingID, minutes.URL, minutes.CreatedAt).Scan(&minutes.ID)
	if err != nil {
		return fmt.Errorf("failed to create minutes: %w", err)
	}
	return nil
}

func (r *minutesRepository) GetByMeetingID(ctx context.Context, meetingID int64) (*models.Minutes, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, meeting_id, url, processed_at, created_at
		FROM minutes
		WHERE meeting_id = $1`

	var m models.Minutes
	err := q.QueryRow(ctx, query, meetingID).Scan(&m.ID, &m.MeetingID, &m.URL, &m.ProcessedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get minutes by meeting: %w", err)
	}
	return &m, nil
}

func (r *minutesRepository) MarkProcessed(ctx context.Context, id int64, processedAt time.Time) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	result, err := q.Exec(ctx, `UPDATE minutes SET processed_at = $2 WHERE id = $1`, id, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark minutes processed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("minutes %d not found", id)
	}
	return nil
}
