package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one or more missing or malformed fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Validation builds a ValidationError from the offending field names.
func Validation(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// ConflictError reports a state conflict such as a timetable overlap or a
// duplicate submission. ID identifies the conflicting entity when known.
type ConflictError struct {
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s (conflicts with %s)", e.Message, e.ID)
	}
	return e.Message
}

// Conflict builds a ConflictError.
func Conflict(message, id string) error {
	return &ConflictError{Message: message, ID: id}
}

// NotFoundError reports a lookup miss for a known resource kind.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError reports an action the caller is not allowed to perform.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// Forbidden builds a ForbiddenError.
func Forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
