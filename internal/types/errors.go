package types

import (
	"errors"
	"fmt"
)

// ValidationError marks missing or malformed input. Surfaced as 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError marks failed authentication. Surfaced as 401.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

func NewAuthError(reason string) error {
	return &AuthError{Reason: reason}
}

// NotFoundError marks a referenced entity that does not exist. Surfaced as 404.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StorageError wraps a database failure. Surfaced as 500 with a generic
// message; the wrapped error is logged server-side only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// HTTPStatus maps an error from the taxonomy to its response status code.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var ae *AuthError
	var nf *NotFoundError

	switch {
	case errors.As(err, &ve):
		return 400
	case errors.As(err, &ae):
		return 401
	case errors.As(err, &nf):
		return 404
	default:
		return 500
	}
}

// PublicMessage returns the client-visible message for an error. Storage
// internals never leak; everything else carries its own message.
func PublicMessage(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return "error interno del servidor"
	}
	return err.Error()
}
