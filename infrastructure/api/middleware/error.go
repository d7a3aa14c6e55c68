package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// APIError carries an explicit HTTP status for request-level failures such
// as missing parameters.
type APIError struct {
	status  int
	message string
}

// NewAPIError creates an APIError with the given status and message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{status: status, message: message}
}

// BadRequest creates a 400 APIError.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

// Error implements the error interface.
func (e *APIError) Error() string { return e.message }

// Status returns the HTTP status code.
func (e *APIError) Status() int { return e.status }

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes a JSON error response, mapping the domain error
// taxonomy to HTTP status codes.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status()
	case errors.Is(err, speaker.ErrUnsupportedFormat),
		errors.Is(err, speaker.ErrEmptyAudio):
		status = http.StatusBadRequest
	case errors.Is(err, speaker.ErrNoProfiles):
		status = http.StatusNotFound
	}

	requestID := middleware.GetReqID(r.Context())

	if logger != nil {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		RequestID: requestID,
	})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
