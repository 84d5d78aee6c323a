package handlers

import (
	"errors"
	"log"
	"net/http"

	"assignmenttracker/internal/service"
	"assignmenttracker/internal/validation"
)

// errorResponse is the body of every non-2xx JSON response
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps errors coming out of the service layer to a
// status code. Only unexpected errors are logged.
func respondWithServiceError(w http.ResponseWriter, err error, notFoundMsg, logMsg string) {
	var verr *validation.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, notFoundMsg, "", nil)
	case errors.Is(err, service.ErrEmptyUpdate):
		respondWithError(w, http.StatusBadRequest, ErrNoFieldsToUpdate, "", nil)
	case errors.As(err, &verr):
		body := errorResponse{Error: verr.Error(), Fields: make(map[string]string, len(verr.Fields))}
		for _, f := range verr.Fields {
			if _, seen := body.Fields[f.Field]; !seen {
				body.Fields[f.Field] = f.Message
			}
		}
		respondJSON(w, http.StatusBadRequest, body)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
