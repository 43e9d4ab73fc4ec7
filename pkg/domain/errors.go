package domain

import (
	"errors"
	"fmt"
)

// ValidationError indicates that an entity field failed validation at
// construction time. It maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a ValidationError without a field reference.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldValidationError creates a ValidationError naming the offending field.
func NewFieldValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidDateRangeError indicates a start/end ordering violation or an
// overlap conflict with an existing live booking. It maps to HTTP 400.
type InvalidDateRangeError struct {
	Message string
}

func (e *InvalidDateRangeError) Error() string { return e.Message }

// NewInvalidDateRangeError creates an InvalidDateRangeError.
func NewInvalidDateRangeError(message string) *InvalidDateRangeError {
	return &InvalidDateRangeError{Message: message}
}

// NotFoundError indicates that a referenced resource does not exist.
// It maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AccessDeniedError indicates that the actor lacks permission for the
// requested view or mutation. It maps to HTTP 403.
type AccessDeniedError struct {
	ActorID  string
	Resource string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("user %s may not access %s", e.ActorID, e.Resource)
}

// NewAccessDeniedError creates an AccessDeniedError naming actor and resource.
func NewAccessDeniedError(actorID, resource string) *AccessDeniedError {
	return &AccessDeniedError{ActorID: actorID, Resource: resource}
}

// InvalidStateError indicates an illegal state transition. It maps to HTTP 409.
type InvalidStateError struct {
	EntityID string
	From     string
	To       string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewInvalidStateError creates an InvalidStateError for the given transition.
func NewInvalidStateError(entityID, from, to string) *InvalidStateError {
	return &InvalidStateError{EntityID: entityID, From: from, To: to}
}

// ConflictError indicates a uniqueness or concurrent-modification conflict.
// It maps to HTTP 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// UnauthorizedError indicates a missing or invalid credential. It maps to
// HTTP 401.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAccessDenied reports whether err is an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var ad *AccessDeniedError
	return errors.As(err, &ad)
}
