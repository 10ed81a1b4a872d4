package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/services"
)

// CandidateHandler exposes the candidate review and matching surface.
type CandidateHandler struct {
	intake  services.CandidateIntake
	matcher services.Matcher
	logger  *zap.Logger
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(intake services.CandidateIntake, matcher services.Matcher, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{intake: intake, matcher: matcher, logger: logger}
}

// RegisterRoutes registers the candidate handler's routes on the given mux.
func (h *CandidateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/proposals/{pid}/candidates", h.ListProposalCandidates)
	mux.HandleFunc("POST /api/candidates/{id}/match", h.MatchOne)
	mux.HandleFunc("POST /api/candidates/{id}/resolve", h.Resolve)
	mux.HandleFunc("POST /api/proposals/{pid}/match", h.MatchProposal)
}

// ListProposalCandidates handles GET /api/proposals/{pid}/candidates.
// An optional ?status= query narrows the result to one matching status.
func (h *CandidateHandler) ListProposalCandidates(w http.ResponseWriter, r *http.Request) {
	proposalID, err := PathID(r, "pid")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	var status *models.MatchingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchingStatus(raw)
		status = &s
	}

	candidates, err := h.intake.ListByContext(r.Context(), models.CandidateKindProposalJudge, proposalID, status)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

// MatchOne handles POST /api/candidates/{id}/match.
func (h *CandidateHandler) MatchOne(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	candidate, err := h.matcher.MatchOne(r.Context(), id)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, candidate)
}

// ResolveRequest is the body of a manual review resolution.
type ResolveRequest struct {
	Status       models.MatchingStatus `json:"status"`
	PoliticianID *int64                `json:"politician_id,omitempty"`
}

// Resolve handles POST /api/candidates/{id}/resolve.
func (h *CandidateHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	candidate, err := h.matcher.ResolveReview(r.Context(), id, req.Status, req.PoliticianID)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, candidate)
}

// MatchProposal handles POST /api/proposals/{pid}/match, resolving every
// pending judge candidate of the proposal.
func (h *CandidateHandler) MatchProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := PathID(r, "pid")
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	result, err := h.matcher.MatchAll(r.Context(), models.CandidateKindProposalJudge, &proposalID)
	if err != nil {
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}
