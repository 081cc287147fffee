package errors

import (
	"net/http"
)

// APIError is the error shape the document API responds with. Internal
// carries the original error for logs and is never serialized.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, internal error) *APIError {
	return &APIError{Status: status, Message: message, Internal: internal}
}

func BadRequest(message string, internal error) *APIError {
	return New(http.StatusBadRequest, message, internal)
}

func Unauthorized(message string, internal error) *APIError {
	return New(http.StatusUnauthorized, message, internal)
}

func NotFound(message string, internal error) *APIError {
	return New(http.StatusNotFound, message, internal)
}

func Conflict(message string, internal error) *APIError {
	return New(http.StatusConflict, message, internal)
}

func UnprocessableEntity(message string, internal error) *APIError {
	return New(http.StatusUnprocessableEntity, message, internal)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError wraps a binding/validation failure
func NewValidationError(err error) *APIError {
	return BadRequest("Invalid request payload", err)
}
