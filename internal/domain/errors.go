package domain

import "fmt"

// ValidationError reports a missing or malformed required field.
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

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an id that does not resolve to an entity.
type NotFoundError struct {
	EntityType EntityType
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.EntityType, e.ID)
}

// NewNotFoundError builds a NotFoundError for the given entity.
func NewNotFoundError(entityType EntityType, id string) *NotFoundError {
	return &NotFoundError{EntityType: entityType, ID: id}
}

// ForbiddenError reports an actor that is not permitted to perform an
// operation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// NewForbiddenError builds a ForbiddenError with the given reason.
func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// ConflictError reports a uniqueness violation. Code distinguishes the
// violated constraint so callers can render a friendly message.
type ConflictError struct {
	Code   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// NewConflictError builds a ConflictError with a distinguishing code.
func NewConflictError(code, reason string) *ConflictError {
	return &ConflictError{Code: code, Reason: reason}
}
