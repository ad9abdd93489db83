package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts core and service errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	details := map[string]any{"reason": err.Error()}
	switch {
	case errors.Is(err, domain.ErrUnrecognizedCategory):
		return NewDomainError("UNRECOGNIZED_CATEGORY", "unrecognized employee category", http.StatusBadRequest, details)
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return NewDomainError("INVALID_CONFIGURATION", "invalid roster configuration", http.StatusBadRequest, details)
	case errors.Is(err, domain.ErrMalformedModel):
		return NewDomainError("MALFORMED_MODEL", "roster model is structurally inconsistent", http.StatusUnprocessableEntity, details)
	case errors.Is(err, domain.ErrSessionNotFound):
		de, _ := NewNotFound("session", details).(*DomainError)
		return de
	case errors.Is(err, domain.ErrVersionConflict):
		de, _ := NewConflict("session was modified concurrently", details).(*DomainError)
		return de
	case errors.Is(err, context.DeadlineExceeded):
		return NewDomainError("SEARCH_TIMEOUT", "search exceeded the request deadline", http.StatusGatewayTimeout, details)
	}

	de, _ := NewInternalError(err).(*DomainError)
	return de
}
