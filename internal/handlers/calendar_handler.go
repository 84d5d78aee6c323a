package handlers

import (
	"context"
	"net/http"
	"time"

	"assignmenttracker/internal/service"
)

// CalendarHandler serves the iCalendar feed
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Feed handles GET /calendar.ics. An optional ?tz= names the IANA zone used
// for day boundaries; the default is UTC.
func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, ErrInvalidTimezone, "", nil)
			return
		}
		loc = l
	}

	body, err := h.calendar.Feed(r.Context(), loc)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to build calendar feed", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="assignments.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// Pinger is satisfied by *database.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports whether the store is reachable
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", "Health check failed", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
