package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")

	ErrRescueNotFound       = errors.New("rescue not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// state machine
	ErrInvalidState    = errors.New("invalid state")
	ErrAlreadyAssigned = errors.New("rescue already assigned")
	ErrAlreadyResolved = errors.New("rescue already resolved")
	ErrRescueClosed    = errors.New("rescue is closed to new candidates")
	ErrStaleLocation   = errors.New("location report is older than stored position")

	// candidacy
	ErrDuplicateCandidate = errors.New("candidate already registered for this rescue")
	ErrSelfCandidacy      = errors.New("requester cannot be a candidate for own rescue")
	ErrInvalidCandidate   = errors.New("candidate does not belong to rescue or is not pending")

	// chat
	ErrEmptyContent   = errors.New("message content is empty")
	ErrContentTooLong = errors.New("message content is too long")

	// transport
	ErrConnectionLost = errors.New("connection lost")
	ErrSlowConsumer   = errors.New("subscriber is too slow, stream closed")

	ErrDatabaseFailed = errors.New("database operation failed")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
