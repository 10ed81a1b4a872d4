package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/services"
)

// ConversionHandler exposes the candidate-to-canonical conversion surface.
type ConversionHandler struct {
	converter services.Converter
	logger    *zap.Logger
}

// NewConversionHandler creates a new ConversionHandler.
func NewConversionHandler(converter services.Converter, logger *zap.Logger) *ConversionHandler {
	return &ConversionHandler{converter: converter, logger: logger}
}

// RegisterRoutes registers the conversion handler's routes on the given mux.
func (h *ConversionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/proposals/{pid}/convert", h.ConvertProposal)
	mux.HandleFunc("POST /api/conferences/{cid}/convert", h.ConvertConference)
	mux.HandleFunc("POST /api/groups/{gid}/convert", h.ConvertGroup)
}

// ConvertProposal handles POST /api/proposals/{pid}/convert.
func (h *ConversionHandler) ConvertProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := PathID(r, "pid")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	result, err := h.converter.ConvertJudges(r.Context(), proposalID)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

// DateRangeRequest carries the membership date range for the date-ranged
// conversions. EndDate absent means open-ended.
type DateRangeRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (req *DateRangeRequest) parse() (time.Time, *time.Time, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, nil, apperrors.Validationf("invalid start_date %q", req.StartDate)
	}
	if req.EndDate == nil {
		return start, nil, nil
	}
	end, err := time.Parse("2006-01-02", *req.EndDate)
	if err != nil {
		return time.Time{}, nil, apperrors.Validationf("invalid end_date %q", *req.EndDate)
	}
	if !start.Before(end) {
		return time.Time{}, nil, apperrors.Validationf("start_date must precede end_date")
	}
	return start, &end, nil
}

// ConvertConference handles POST /api/conferences/{cid}/convert.
func (h *ConversionHandler) ConvertConference(w http.ResponseWriter, r *http.Request) {
	conferenceID, err := PathID(r, "cid")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	start, end, err := decodeDateRange(r)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	result, err := h.converter.ConvertAffiliations(r.Context(), conferenceID, start, end)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

// ConvertGroup handles POST /api/groups/{gid}/convert.
func (h *ConversionHandler) ConvertGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := PathID(r, "gid")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	start, end, err := decodeDateRange(r)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	result, err := h.converter.ConvertMemberships(r.Context(), groupID, start, end)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func decodeDateRange(r *http.Request) (time.Time, *time.Time, error) {
	var req DateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return time.Time{}, nil, apperrors.Validationf("invalid request body")
	}
	return req.parse()
}
