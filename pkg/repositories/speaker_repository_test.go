package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/testhelpers"
)

func TestSpeakerRepository_DedupLookup(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := tdb.Scope(context.Background())

	repo := NewSpeakerRepository()

	s := &models.Speaker{Name: "議長"}
	require.NoError(t, repo.Create(ctx, s))

	// Nil party/position must match the NULL columns.
	got, err := repo.FindByNamePartyPosition(ctx, "議長", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)

	party := "自由党"
	got, err = repo.FindByNamePartyPosition(ctx, "議長", &party, nil)
	require.NoError(t, err)
	assert.Nil(t, got, "differing party is a different speaker")

	got, err = repo.FindByNamePartyPosition(ctx, "別人", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConversationRepository_TxRollback(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := context.Background()

	db := &database.DB{Pool: tdb.Pool}

	meetings := NewMeetingRepository()
	minutesRepo := NewMinutesRepository()
	conversations := NewConversationRepository()

	scoped := tdb.Scope(ctx)
	meeting := &models.Meeting{Name: "第1回定例会"}
	require.NoError(t, meetings.Create(scoped, meeting))

	// A failing step after the inserts must leave nothing behind.
	err := db.WithTx(ctx, func(txCtx context.Context) error {
		minutes := &models.Minutes{MeetingID: meeting.ID}
		if err := minutesRepo.Create(txCtx, minutes); err != nil {
			return err
		}
		if err := conversations.BulkCreate(txCtx, []*models.Conversation{
			{MinutesID: minutes.ID, SequenceNumber: 1, SpeakerName: "議長", Comment: "開会します。"},
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	minutes, err := minutesRepo.GetByMeetingID(scoped, meeting.ID)
	require.NoError(t, err)
	assert.Nil(t, minutes, "rolled back transaction leaves no minutes row")
}

func TestConversationRepository_SequenceOrder(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	ctx := tdb.Scope(context.Background())

	meetings := NewMeetingRepository()
	minutesRepo := NewMinutesRepository()
	conversations := NewConversationRepository()

	meeting := &models.Meeting{Name: "第2回定例会"}
	require.NoError(t, meetings.Create(ctx, meeting))
	minutes := &models.Minutes{MeetingID: meeting.ID}
	require.NoError(t, minutesRepo.Create(ctx, minutes))

	require.NoError(t, conversations.BulkCreate(ctx, []*models.Conversation{
		{MinutesID: minutes.ID, SequenceNumber: 1, SpeakerName: "議長", Comment: "開会します。"},
		{MinutesID: minutes.ID, SequenceNumber: 2, SpeakerName: "田中", Comment: "質問があります。"},
	}))

	got, err := conversations.GetByMinutes(ctx, minutes.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].SequenceNumber)
	assert.Equal(t, "議長", got[0].SpeakerName)
	assert.Equal(t, 2, got[1].SequenceNumber)

	count, err := conversations.CountByMinutes(ctx, minutes.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, conversations.DeleteByMinutes(ctx, minutes.ID))
	count, err = conversations.CountByMinutes(ctx, minutes.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
