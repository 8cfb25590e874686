package errs

import (
	"errors"
	"fmt"
)

// ValidationError indicates a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidation creates a ValidationError for the given field
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates an id that resolved to no record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NewNotFound creates a NotFoundError for the given record kind and id
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// AuthorizationError indicates the acting user is not permitted to perform
// the operation (not the organizer, requester, or designated recipient).
type AuthorizationError struct {
	ActorID string
	Reason  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not authorized: %s", e.ActorID, e.Reason)
}

// NewAuthorization creates an AuthorizationError for the acting user
func NewAuthorization(actorID, reason string) error {
	return &AuthorizationError{ActorID: actorID, Reason: reason}
}

// StateConflictError indicates an operation that is invalid for the record's
// current state, including losing a concurrent race to another writer.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: %s", e.Reason)
}

// NewStateConflict creates a StateConflictError
func NewStateConflict(reason string) error {
	return &StateConflictError{Reason: reason}
}

// CapacityError indicates a shift or role that is already at capacity.
type CapacityError struct {
	Subject string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s is already at capacity", e.Subject)
}

// NewCapacity creates a CapacityError for the given subject
func NewCapacity(subject string) error {
	return &CapacityError{Subject: subject}
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err is or wraps an AuthorizationError
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsStateConflict reports whether err is or wraps a StateConflictError
func IsStateConflict(err error) bool {
	var target *StateConflictError
	return errors.As(err, &target)
}

// IsCapacity reports whether err is or wraps a CapacityError
func IsCapacity(err error) bool {
	var target *CapacityError
	return errors.As(err, &target)
}
