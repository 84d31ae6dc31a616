package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no row matches.
var ErrNotFound = errors.New("not found")

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// ErrorKind categorizes failures surfaced to the UI.
type ErrorKind string

const (
	KindAlreadyRegistered ErrorKind = "already_registered"
	KindWeakCredential    ErrorKind = "weak_credential"
	KindDuplicateUsername ErrorKind = "duplicate_username"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindUnknown           ErrorKind = "unknown"
)

// Error is a categorized error carrying the original provider or store
// message for display. Workflows return these; the HTTP layer maps the
// kind to a status code.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a categorized error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the kind from an error chain, defaulting to Unknown.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindUnknown
}
