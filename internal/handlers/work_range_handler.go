package handlers

import (
	"net/http"

	"assignmenttracker/internal/models"
	"assignmenttracker/internal/service"
)

// WorkRangeHandler serves the work periods of assignments
type WorkRangeHandler struct {
	ranges *service.WorkRangeService
}

// NewWorkRangeHandler creates a new work range handler
func NewWorkRangeHandler(ranges *service.WorkRangeService) *WorkRangeHandler {
	return &WorkRangeHandler{ranges: ranges}
}

// List handles GET /assignments/{id}/work-ranges
func (h *WorkRangeHandler) List(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.ranges.ListByAssignment(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list work ranges", err)
		return
	}

	body := make([]models.WorkDateRangeJSON, len(ranges))
	for i, wr := range ranges {
		body[i] = wr.ToJSON()
	}
	respondJSON(w, http.StatusOK, body)
}

// Create handles POST /assignments/{id}/work-ranges
func (h *WorkRangeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewWorkDateRangeJSON
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	start, end, err := req.Parse()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+err.Error(), "", nil)
		return
	}

	wr, err := h.ranges.Create(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		respondWithServiceError(w, err, ErrAssignmentNotFound, "Failed to create work range")
		return
	}
	respondJSON(w, http.StatusCreated, wr.ToJSON())
}

// Delete handles DELETE /work-ranges/{id}
func (h *WorkRangeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ranges.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithServiceError(w, err, ErrWorkRangeNotFound, "Failed to delete work range")
		return
	}
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}
