package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrItemNotFound is returned when an (owner, item) pair matches nothing.
	ErrItemNotFound = errors.New("item not found")
	// ErrUserInactive is returned when a resolved identity is disabled.
	ErrUserInactive = errors.New("inactive user")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// is an internal error; store-level failures fail the request, never the
// process.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ITEM_NOT_FOUND")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INACTIVE_USER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
