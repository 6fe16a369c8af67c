package apierr

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mcoot/skylandly/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnknownSkylander = "UNKNOWN_SKYLANDER"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConflict         = "CONFLICT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Invalid input carries the caller-facing detail in its message
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrUnknownEntity):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownSkylander, "Invalid Skylander name"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Player not found"}}
	case errors.Is(err, model.ErrResultNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Result not found"}}
	case errors.Is(err, model.ErrStoreConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Concurrent update, please retry"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
