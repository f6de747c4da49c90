package service

import (
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed input. Details holds one
// message per offending field.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// DuplicateError reports a name collision with an existing active record.
type DuplicateError struct {
	Entity string
	Name   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with this name already exists", e.Entity)
}

// NotFoundError reports an id or name that does not resolve.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ConflictError reports a deletion blocked by Count referencing tasks.
type ConflictError struct {
	Message string
	Count   int64
}

func (e *ConflictError) Error() string {
	return e.Message
}

func invalid(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}
