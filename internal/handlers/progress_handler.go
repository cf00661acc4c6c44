package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"brightsteps/internal/progress"
	"brightsteps/internal/service"
)

// ProgressHandler handles progress HTTP requests.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress returns the signed-in kid's document, with the streak
// adjusted to its effective reading, plus aggregate totals.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	kid := GetKidFromContext(r.Context())
	if kid == nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
		return
	}

	doc, totals := h.progressService.GetProgress(kid.ID)
	respondJSON(w, http.StatusOK, progressResponse{Progress: doc, Totals: totals})
}

// RecordCompletion records one task-completion event.
func (h *ProgressHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	kid := GetKidFromContext(r.Context())
	if kid == nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
		return
	}

	var completion progress.Completion
	if err := json.NewDecoder(r.Body).Decode(&completion); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}
	if completion.Score < 0 || completion.TotalQuestions < 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Score and totalQuestions must be non-negative"})
		return
	}

	doc, err := h.progressService.RecordCompletion(kid.ID, completion)
	if err != nil {
		// These only fire on a miswired client; the module names and
		// activity indices are statically known to the task UI.
		if errors.Is(err, progress.ErrInvalidModule) || errors.Is(err, progress.ErrInvalidActivityIndex) {
			respondWithError(w, http.StatusBadRequest, "Invalid completion event", "Rejected completion event", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to record completion", err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{Progress: doc, Totals: doc.Totals()})
}

// GetAchievements returns the full achievement catalog with unlock
// status, recomputed on every request.
func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	kid := GetKidFromContext(r.Context())
	if kid == nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
		return
	}

	respondJSON(w, http.StatusOK, achievementsResponse{
		Achievements: h.progressService.GetAchievements(kid.ID),
	})
}

// ResetProgress wipes the signed-in kid's progress. The route wiring
// additionally requires a parent token; this is not reversible.
func (h *ProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	kid := GetKidFromContext(r.Context())
	if kid == nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
		return
	}

	doc, err := h.progressService.ResetProgress(kid.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reset progress", err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{Progress: doc, Totals: doc.Totals()})
}
