// Package handler implements the HTTP API surface. Handlers decode
// requests, call the service layer, and translate domain errors to
// status codes; they contain no business logic.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mquell/listling/internal/apperror"
)

// ErrorResponse is the standard error shape returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps a domain error onto an HTTP status. The service
// layer speaks apperror sentinels; this is the only place they meet
// HTTP.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	errorType := "internal_error"
	message := "an internal error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrInvalidCode):
			status = http.StatusNotFound
			errorType = "invalid_code"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
			errorType = "store_unavailable"
			// Don't leak driver detail to clients.
			message = "store unavailable, try again"
		}
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: errorType, Message: message})
}

// badRequest reports a malformed request body.
func badRequest(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: "bad_request", Message: "invalid request body"})
}

// ascendingParam reads the client's active sort direction from the
// query string. Absent means ascending, the default on list load.
func ascendingParam(r *http.Request) bool {
	return r.URL.Query().Get("ascending") != "false"
}
