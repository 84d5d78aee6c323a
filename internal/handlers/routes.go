package handlers

import (
	"net/http"
	"strings"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/security"
	"assignmenttracker/internal/service"
)

// RouterConfig lists what the API router is built from
type RouterConfig struct {
	DB      *database.DB
	Prefix  string                // e.g. "/api"; empty mounts at the root
	Limiter *security.RateLimiter // nil disables rate limiting
}

// NewRouter wires services, handlers and middleware into the API handler
func NewRouter(cfg RouterConfig) http.Handler {
	assignmentService := service.NewAssignmentService(cfg.DB)
	workRangeService := service.NewWorkRangeService(cfg.DB)
	calendarService := service.NewCalendarService(assignmentService)

	assignmentHandler := NewAssignmentHandler(assignmentService)
	workRangeHandler := NewWorkRangeHandler(workRangeService)
	calendarHandler := NewCalendarHandler(calendarService)

	api := http.NewServeMux()

	api.Handle("/assignments", Methods{
		http.MethodGet:  assignmentHandler.List,
		http.MethodPost: assignmentHandler.Create,
	})
	api.Handle("/assignments/{id}", Methods{
		http.MethodGet:    assignmentHandler.Get,
		http.MethodPut:    assignmentHandler.Update,
		http.MethodDelete: assignmentHandler.Delete,
	})
	api.Handle("/assignments/{id}/work-ranges", Methods{
		http.MethodGet:  workRangeHandler.List,
		http.MethodPost: workRangeHandler.Create,
	})
	api.Handle("/work-ranges/{id}", Methods{
		http.MethodDelete: workRangeHandler.Delete,
	})
	api.Handle("/calendar.ics", Methods{
		http.MethodGet: calendarHandler.Feed,
	})
	api.Handle("/health", Methods{
		http.MethodGet: Health(cfg.DB),
	})
	api.HandleFunc("/", notFound)

	var handler http.Handler = api
	if prefix := strings.TrimSuffix(cfg.Prefix, "/"); prefix != "" {
		root := http.NewServeMux()
		root.Handle(prefix+"/", http.StripPrefix(prefix, api))
		root.HandleFunc("/", notFound)
		handler = root
	}

	if cfg.Limiter != nil {
		handler = RateLimit(cfg.Limiter)(handler)
	}
	return Logging(handler)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, ErrRouteNotFound, "", nil)
}
