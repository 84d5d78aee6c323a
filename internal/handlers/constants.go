package handlers

const (
	// maxBodyBytes caps request bodies; assignments are small
	maxBodyBytes = 1 << 20

	ErrInvalidJSON         = "Invalid JSON body"
	ErrInternalServerError = "Internal server error"
	ErrAssignmentNotFound  = "Assignment not found"
	ErrWorkRangeNotFound   = "Work range not found"
	ErrNoFieldsToUpdate    = "No fields to update"
	ErrMethodNotAllowed    = "Method not allowed"
	ErrRouteNotFound       = "Not found"
	ErrTooManyRequests     = "Too many requests"
	ErrInvalidTimezone     = "Invalid timezone"
)
