package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/services"
)

// MinutesHandler exposes the minutes ingestion surface.
type MinutesHandler struct {
	ingestion services.MinutesIngestion
	logger    *zap.Logger
}

// NewMinutesHandler creates a new MinutesHandler.
func NewMinutesHandler(ingestion services.MinutesIngestion, logger *zap.Logger) *MinutesHandler {
	return &MinutesHandler{ingestion: ingestion, logger: logger}
}

// RegisterRoutes registers the minutes handler's routes on the given mux.
func (h *MinutesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/meetings/{id}/minutes/process", h.Process)
}

// ProcessRequest is the body of an ingestion request. An empty body is
// accepted and means no force.
type ProcessRequest struct {
	ForceReprocess bool `json:"force_reprocess"`
}

// ProcessResponse mirrors services.IngestionResult with the duration in
// milliseconds.
type ProcessResponse struct {
	RunID              string `json:"run_id"`
	MeetingID          int64  `json:"meeting_id"`
	MinutesID          int64  `json:"minutes_id"`
	TotalConversations int    `json:"total_conversations"`
	UniqueSpeakers     int    `json:"unique_speakers"`
	ProcessingTimeMs   int64  `json:"processing_time_ms"`
}

// Process handles POST /api/meetings/{id}/minutes/process.
func (h *MinutesHandler) Process(w http.ResponseWriter, r *http.Request) {
	meetingID, err := PathID(r, "id")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	result, err := h.ingestion.Execute(r.Context(), meetingID, req.ForceReprocess)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, ProcessResponse{
		RunID:              result.RunID.String(),
		MeetingID:          result.MeetingID,
		MinutesID:          result.MinutesID,
		TotalConversations: result.TotalConversations,
		UniqueSpeakers:     result.UniqueSpeakers,
		ProcessingTimeMs:   result.ProcessingTime.Milliseconds(),
	})
}
