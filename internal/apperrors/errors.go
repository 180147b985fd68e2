// Package apperrors defines the error kinds surfaced to API callers.
// Authorization is deliberately distinct from Validation and StateConflict so
// clients can tell "you may not do this" apart from "try a different action".
package apperrors

import "fmt"

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindAuthentication Kind = "AUTHENTICATION"
	KindAuthorization  Kind = "AUTHORIZATION"
	KindValidation     Kind = "VALIDATION"
	KindNotFound       Kind = "NOT_FOUND"
	KindStateConflict  Kind = "STATE_CONFLICT"
	KindInternal       Kind = "INTERNAL"
)

// Error is a kinded domain error with a human-readable message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewAuthentication reports a missing or unverifiable caller identity.
func NewAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewAuthorization reports a caller lacking rights over the target resource.
func NewAuthorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewValidation reports malformed or out-of-range input on a field.
func NewValidation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewNotFound reports an id that does not resolve.
func NewNotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// NewStateConflict reports a transition that violates the order state machine.
func NewStateConflict(message string) *Error {
	return &Error{Kind: KindStateConflict, Message: message}
}

// NewInternal wraps an unexpected downstream failure.
func NewInternal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// KindOf extracts the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
