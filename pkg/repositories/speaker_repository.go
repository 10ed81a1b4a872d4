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

// SpeakerRepository provides data access for deduplicated speakers.
type SpeakerRepository interface {
	Create(ctx context.Context, speaker *models.Speaker) error
	// FindByNamePartyPosition is the exact dedup lookup. Nil party and
	// position match NULL columns.
	FindByNamePartyPosition(ctx context.Context, name string, party, position *string) (*models.Speaker, error)
}

type speakerRepository struct{}

// NewSpeakerRepository creates a new SpeakerRepository.
func NewSpeakerRepository() SpeakerRepository {
	return &speakerRepository{}
}

var _ SpeakerRepository = (*speakerRepository)(nil)

func (r *speakerRepository) Create(ctx context.Context, speaker *models.Speaker) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	speaker.CreatedAt = time.Now()

	query := `
		INSERT INTO speakers (name, party, position, politician_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		speaker.Name, speaker.Party, speaker.Position, speaker.PoliticianID, speaker.CreatedAt,
	).Scan(&speaker.ID)
	if err != nil {
		return fmt.Errorf("failed to create speaker: %w", err)
	}
	return nil
}

func (r *speakerRepository) FindByNamePartyPosition(ctx context.Context, name string, party, position *string) (*models.Speaker, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, name, party, position, politician_id, created_at
		FROM speakers
		WHERE name = $1
		  AND party IS NOT DISTINCT FROM $2
		  AND position IS NOT DISTINCT FROM $3`

	var s models.Speaker
	err := q.QueryRow(ctx, query, name, party, position).Scan(
		&s.ID, &s.Name, &s.Party, &s.Position, &s.PoliticianID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find speaker: %w", err)
	}
	return &s, nil
}
