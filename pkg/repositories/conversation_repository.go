package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

// ConversationRepository provides data access for conversations.
type ConversationRepository interface {
	// BulkCreate inserts conversations in order, assigning ids. Callers
	// run it inside the ingestion transaction.
	BulkCreate(ctx context.Context, conversations []*models.Conversation) error
	GetByMinutes(ctx context.Context, minutesID int64) ([]*models.Conversation, error)
	CountByMinutes(ctx context.Context, minutesID int64) (int, error)
	DeleteByMinutes(ctx context.Context, minutesID int64) error
}

type conversationRepository struct{}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository() ConversationRepository {
	return &conversationRepository{}
}

var _ ConversationRepository = (*conversationRepository)(nil)

func (r *conversationRepository) BulkCreate(ctx context.Context, conversations []*models.Conversation) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	now := time.Now()

	query := `
		INSERT INTO conversations (minutes_id, sequence_number, speaker_name, comment, speaker_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for _, c := range conversations {
		c.CreatedAt = now
		err := q.QueryRow(ctx, query,
			c.MinutesID, c.SequenceNumber, c.SpeakerName, c.Comment, c.SpeakerID, c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to create conversation %d: %w", c.SequenceNumber, err)
		}
	}
	return nil
}

func (r *conversationRepository) GetByMinutes(ctx context.Context, minutesID int64) ([]*models.Conversation, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query := `
		SELECT id, minutes_id, sequence_number, speaker_name, comment, speaker_id, created_at
		FROM conversations
		WHERE minutes_id = $1
		ORDER BY sequence_number ASC`

	rows, err := q.Query(ctx, query, minutesID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func (r *conversationRepository) CountByMinutes(ctx context.Context, minutesID int64) (int, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return 0, fmt.Errorf("no database scope in context")
	}

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM conversations WHERE minutes_id = $1`, minutesID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

func (r *conversationRepository) DeleteByMinutes(ctx context.Context, minutesID int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	_, err := q.Exec(ctx, `DELETE FROM conversations WHERE minutes_id = $1`, minutesID)
	if err != nil {
		return fmt.Errorf("failed to delete conversations: %w", err)
	}
	return nil
}

func scanConversationRows(rows pgx.Rows) ([]*models.Conversation, error) {
	var conversations []*models.Conversation

	for rows.Next() {
		var c models.Conversation
		err := rows.Scan(&c.ID, &c.MinutesID, &c.SequenceNumber, &c.SpeakerName, &c.Comment, &c.SpeakerID, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return conversations, nil
}
