package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/services"
)

type mockIngestion struct {
	executeFunc func(ctx context.Context, meetingID int64, force bool) (*services.IngestionResult, error)
	lastForce   bool
}

func (m *mockIngestion) Execute(ctx context.Context, meetingID int64, force bool) (*services.IngestionResult, error) {
	m.lastForce = force
	return m.executeFunc(ctx, meetingID, force)
}

func newMinutesServer(ingestion services.MinutesIngestion) *http.ServeMux {
	mux := http.NewServeMux()
	NewMinutesHandler(ingestion, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestProcess_Success(t *testing.T) {
	ingestion := &mockIngestion{
		executeFunc: func(_ context.Context, meetingID int64, _ bool) (*services.IngestionResult, error) {
			return &services.IngestionResult{
				RunID:              uuid.New(),
				MeetingID:          meetingID,
				MinutesID:          7,
				TotalConversations: 2,
				UniqueSpeakers:     2,
				ProcessingTime:     42 * time.Millisecond,
			}, nil
		},
	}
	mux := newMinutesServer(ingestion)

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/3/minutes/process",
		strings.NewReader(`{"force_reprocess": true}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ingestion.lastForce)
	assert.Contains(t, rec.Body.String(), `"total_conversations":2`)
	assert.Contains(t, rec.Body.String(), `"meeting_id":3`)
}

func TestProcess_EmptyBodyMeansNoForce(t *testing.T) {
	ingestion := &mockIngestion{
		executeFunc: func(_ context.Context, meetingID int64, _ bool) (*services.IngestionResult, error) {
			return &services.IngestionResult{RunID: uuid.New(), MeetingID: meetingID}, nil
		},
	}
	mux := newMinutesServer(ingestion)

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/3/minutes/process", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ingestion.lastForce)
}

func TestProcess_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not_found", apperrors.NotFoundf("meeting 3 not found"), http.StatusNotFound},
		{"conflict", apperrors.Conflictf("conversations exist"), http.StatusConflict},
		{"unprocessable", apperrors.UnprocessableSourcef("no source"), http.StatusUnprocessableEntity},
		{"processing", apperrors.Processingf("nothing extracted"), http.StatusUnprocessableEntity},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestion := &mockIngestion{
				executeFunc: func(_ context.Context, _ int64, _ bool) (*services.IngestionResult, error) {
					return nil, tt.err
				},
			}
			mux := newMinutesServer(ingestion)

			req := httptest.NewRequest(http.MethodPost, "/api/meetings/3/minutes/process", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestProcess_InvalidMeetingID(t *testing.T) {
	mux := newMinutesServer(&mockIngestion{})

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/abc/minutes/process", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
