package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// MeetingRepository provides data access for meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, id int64) (*models.Meeting, error)
}

type meetingRepository struct{}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository() MeetingRepository {
	return &meetingRepository{}
}

var _ MeetingRepository = (*meetingRepository)(nil)

func (r *meetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	query := `
		INSERT INTO meetings (name, date, gcs_text_uri, gcs_pdf_uri)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := q.QueryRow(ctx, query, meeting.Name, meeting.Date, meeting.GCSTextURI, meeting.GCSPdfURI).Scan(&meeting.ID)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id int64) (*models.Meeting, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `SELECT id, name, date, gcs_text_uri, gcs_pdf_uri FROM meetings WHERE id = $1`

	var m models.Meeting
	err := q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Date, &m.GCSTextURI, &m.GCSPdfURI)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &m, nil
}
