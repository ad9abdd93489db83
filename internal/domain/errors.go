package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnrecognizedCategory is also an ErrInvalidConfiguration.
	ErrUnrecognizedCategory = fmt.Errorf("%w: unrecognized category", ErrInvalidConfiguration)
	ErrMalformedModel       = errors.New("malformed model")
	ErrSessionNotFound      = errors.New("session not found")
	ErrVersionConflict      = errors.New("session version conflict")
)

// Error attaches detail to one of the sentinel kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) error {
	return Errorf(ErrInvalidConfiguration, format, args...)
}
