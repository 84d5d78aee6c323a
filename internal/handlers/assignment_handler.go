package handlers

import (
	"encoding/json"
	"net/http"

	"assignmenttracker/internal/models"
	"assignmenttracker/internal/service"
)

// AssignmentHandler serves the assignment resources
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List handles GET /assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignments.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list assignments", err)
		return
	}

	body := make([]models.AssignmentJSON, len(assignments))
	for i, a := range assignments {
		body[i] = a.ToJSON()
	}
	respondJSON(w, http.StatusOK, body)
}

// Create handles POST /assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewAssignmentJSON
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	input, err := req.ToNewAssignment()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+err.Error(), "", nil)
		return
	}

	a, err := h.assignments.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, err, ErrAssignmentNotFound, "Failed to create assignment")
		return
	}
	respondJSON(w, http.StatusCreated, a.ToJSON())
}

// Get handles GET /assignments/{id}
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.assignments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err, ErrAssignmentNotFound, "Failed to get assignment")
		return
	}
	respondJSON(w, http.StatusOK, a.ToJSON())
}

// Update handles PUT /assignments/{id}. The body may carry any subset of the
// mutable fields; start_date may be null to clear it.
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	patch, err := models.DecodePatch(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+err.Error(), "", nil)
		return
	}

	a, err := h.assignments.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithServiceError(w, err, ErrAssignmentNotFound, "Failed to update assignment")
		return
	}
	respondJSON(w, http.StatusOK, a.ToJSON())
}

// Delete handles DELETE /assignments/{id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assignments.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithServiceError(w, err, ErrAssignmentNotFound, "Failed to delete assignment")
		return
	}
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}
