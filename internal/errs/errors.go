// Package errs provides the unified error type used across the connector.
//
// Subsystems wrap their native errors (pgx, JSON decoding, …) into
// *errs.Error before returning them to callers. Callers use the Is*
// predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In the elaborator — wrap native errors:
//	return errs.Wrap(errs.ErrKindIntrospection, "introspection query failed", pgErr)
//
//	// In a handler — check error kind:
//	if errs.IsConnectionFailed(err) {
//	    http.Error(w, "database unreachable", http.StatusBadGateway)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindValidation               // user-fixable configuration defect
	ErrKindConnectionFailed         // cannot reach or authenticate to the database
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindIntrospection            // discovery query failed against the database
	ErrKindDecode                   // discovery result violates the two-column contract
	ErrKindTranslation              // operator unrecognized for a scalar type
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindValidation:
		return "validation"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindIntrospection:
		return "introspection"
	case ErrKindDecode:
		return "decode"
	case ErrKindTranslation:
		return "translation"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across subsystem boundaries.
// The original cause is preserved for logging and errors.Is / errors.As.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsValidation reports whether err is a user-fixable configuration defect.
func IsValidation(err error) bool {
	return kindOf(err) == ErrKindValidation
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsIntrospection reports whether err is a discovery query failure.
func IsIntrospection(err error) bool {
	return kindOf(err) == ErrKindIntrospection
}

// IsDecode reports whether err means the discovery result did not match
// the expected two-column contract.
func IsDecode(err error) bool {
	return kindOf(err) == ErrKindDecode
}

// IsTranslation reports whether err is an operator translation failure.
func IsTranslation(err error) bool {
	return kindOf(err) == ErrKindTranslation
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
