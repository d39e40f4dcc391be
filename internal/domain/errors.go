package domain

import "fmt"

// ValidationError reports a missing required field or a broken referential
// rule, naming the offending field. Nothing is persisted when one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an absent entity at read, update or delete time.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// DependencyError reports a failed step inside a cascading delete. Cascades
// run inside a transaction, so a DependencyError always means the whole
// cascade was rolled back.
type DependencyError struct {
	Entity string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cascade on %s failed: %v", e.Entity, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
