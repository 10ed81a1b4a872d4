package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/extract"
	"github.com/gikai-lab/minutes-engine/pkg/metrics"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
	"github.com/gikai-lab/minutes-engine/pkg/source"
	"github.com/gikai-lab/minutes-engine/pkg/textutil"
)

// TxRunner executes fn inside a single database transaction.
// *database.DB satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IngestionResult summarizes one successful ingestion run.
type IngestionResult struct {
	RunID              uuid.UUID     `json:"run_id"`
	MeetingID          int64         `json:"meeting_id"`
	MinutesID          int64         `json:"minutes_id"`
	TotalConversations int           `json:"total_conversations"`
	UniqueSpeakers     int           `json:"unique_speakers"`
	ProcessingTime     time.Duration `json:"processing_time"`
}

// MinutesIngestion is the transactional orchestrator that turns a
// meeting's transcript source into conversation and speaker rows. One
// Execute call is one transaction: any failure rolls everything back.
type MinutesIngestion interface {
	Execute(ctx context.Context, meetingID int64, forceReprocess bool) (*IngestionResult, error)
}

type minutesIngestion struct {
	tx            TxRunner
	meetings      repositories.MeetingRepository
	minutes       repositories.MinutesRepository
	conversations repositories.ConversationRepository
	speakers      repositories.SpeakerRepository
	fetcher       source.Fetcher
	extractor     extract.Extractor
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewMinutesIngestion creates a new MinutesIngestion.
func NewMinutesIngestion(
	tx TxRunner,
	meetings repositories.MeetingRepository,
	minutes repositories.MinutesRepository,
	conversations repositories.ConversationRepository,
	speakers repositories.SpeakerRepository,
	fetcher source.Fetcher,
	extractor extract.Extractor,
	m *metrics.Metrics,
	logger *zap.Logger,
) MinutesIngestion {
	return &minutesIngestion{
		tx:            tx,
		meetings:      meetings,
		minutes:       minutes,
		conversations: conversations,
		speakers:      speakers,
		fetcher:       fetcher,
		extractor:     extractor,
		metrics:       m,
		logger:        logger,
	}
}

var _ MinutesIngestion = (*minutesIngestion)(nil)

func (s *minutesIngestion) Execute(ctx context.Context, meetingID int64, forceReprocess bool) (*IngestionResult, error) {
	start := time.Now()
	result := &IngestionResult{
		RunID:     uuid.New(),
		MeetingID: meetingID,
	}

	logger := s.logger.With(
		zap.String("run_id", result.RunID.String()),
		zap.Int64("meeting_id", meetingID),
		zap.Bool("force_reprocess", forceReprocess))
	logger.Info("starting minutes ingestion")

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.run(ctx, meetingID, forceReprocess, result, logger)
	})
	if err != nil {
		s.metrics.ObserveIngestion("error", time.Since(start), 0)
		logger.Warn("minutes ingestion failed", zap.Error(err))
		return nil, err
	}

	result.ProcessingTime = time.Since(start)
	s.metrics.ObserveIngestion("ok", result.ProcessingTime, result.TotalConversations)
	logger.Info("minutes ingestion complete",
		zap.Int64("minutes_id", result.MinutesID),
		zap.Int("total_conversations", result.TotalConversations),
		zap.Int("unique_speakers", result.UniqueSpeakers),
		zap.Duration("processing_time", result.ProcessingTime))

	return result, nil
}

// run executes the ingestion steps inside the caller's transaction.
func (s *minutesIngestion) run(ctx context.Context, meetingID int64, forceReprocess bool, result *IngestionResult, logger *zap.Logger) error {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return apperrors.NotFoundf("meeting %d not found", meetingID)
	}

	minutes, err := s.minutes.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load minutes: %w", err)
	}
	if minutes == nil {
		minutes = &models.Minutes{MeetingID: meetingID, URL: meeting.GCSTextURI}
		if err := s.minutes.Create(ctx, minutes); err != nil {
			return fmt.Errorf("failed to create minutes: %w", err)
		}
	}
	result.MinutesID = minutes.ID

	existing, err := s.conversations.CountByMinutes(ctx, minutes.ID)
	if err != nil {
		return fmt.Errorf("failed to count conversations: %w", err)
	}
	if existing > 0 {
		if !forceReprocess {
			return apperrors.Conflictf("minutes %d already has %d conversations; use force_reprocess", minutes.ID, existing)
		}
		if err := s.conversations.DeleteByMinutes(ctx, minutes.ID); err != nil {
			return fmt.Errorf("failed to delete conversations: %w", err)
		}
		logger.Info("deleted existing conversations for reprocess", zap.Int("count", existing))
	}

	text, err := s.fetchText(ctx, meeting)
	if err != nil {
		return err
	}

	pairs, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to extract speeches: %w", err)
	}
	if len(pairs) == 0 {
		return apperrors.Processingf("no speeches extracted from meeting %d", meetingID)
	}

	conversations := make([]*models.Conversation, 0, len(pairs))
	for i, pair := range pairs {
		conversations = append(conversations, &models.Conversation{
			MinutesID:      minutes.ID,
			SequenceNumber: i + 1,
			SpeakerName:    pair.SpeakerName,
			Comment:        pair.SpeechContent,
		})
	}
	if err := s.conversations.BulkCreate(ctx, conversations); err != nil {
		return fmt.Errorf("failed to store conversations: %w", err)
	}
	result.TotalConversations = len(conversations)

	unique, err := s.ensureSpeakers(ctx, pairs)
	if err != nil {
		return err
	}
	result.UniqueSpeakers = unique

	return s.minutes.MarkProcessed(ctx, minutes.ID, time.Now())
}

// fetchText resolves the meeting's transcript text, translating every
// "no source" shape into UnprocessableSourceError.
func (s *minutesIngestion) fetchText(ctx context.Context, meeting *models.Meeting) (string, error) {
	if meeting.GCSTextURI == nil || *meeting.GCSTextURI == "" {
		return "", apperrors.UnprocessableSourcef("meeting %d has no transcript source", meeting.ID)
	}

	fetched, err := s.fetcher.Download(ctx, *meeting.GCSTextURI)
	if err != nil {
		return "", fmt.Errorf("failed to download transcript: %w", err)
	}
	if fetched.Unavailable {
		return "", apperrors.UnprocessableSourcef("transcript for meeting %d unavailable: %s", meeting.ID, fetched.Reason)
	}
	return string(fetched.Body), nil
}

// ensureSpeakers creates any speaker rows absent for the transcript's
// unique (normalized name, party) pairs and returns the pair count.
// Speakers are shared across minutes, so existing rows are reused, never
// updated.
func (s *minutesIngestion) ensureSpeakers(ctx context.Context, pairs []extract.SpeechPair) (int, error) {
	seen := make(map[string]bool)
	unique := 0

	for _, pair := range pairs {
		name := textutil.NormalizeName(pair.SpeakerName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique++

		existing, err := s.speakers.FindByNamePartyPosition(ctx, name, nil, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to look up speaker: %w", err)
		}
		if existing != nil {
			continue
		}
		if err := s.speakers.Create(ctx, &models.Speaker{Name: name}); err != nil {
			return 0, fmt.Errorf("failed to create speaker: %w", err)
		}
	}

	return unique, nil
}
