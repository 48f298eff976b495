package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMemberNotFound is returned when no member matches the given id.
	ErrMemberNotFound = errors.New("Member not found")
	// ErrNameRequired is returned when a member is created without a name.
	ErrNameRequired = errors.New("Name is required")
	// ErrInvalidQuery is returned when list parameters cannot be interpreted.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIDExhausted is returned when no unused member id could be minted.
	ErrIDExhausted = errors.New("could not allocate member id")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		return NewHTTPError(http.StatusNotFound, ErrMemberNotFound.Error(), "MEMBER_NOT_FOUND")
	case errors.Is(err, ErrNameRequired):
		return NewHTTPError(http.StatusBadRequest, ErrNameRequired.Error(), "NAME_REQUIRED")
	case errors.Is(err, ErrInvalidQuery):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUERY")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
