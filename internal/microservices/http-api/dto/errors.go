package dto

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key for errors that are not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError maps request fields to human readable messages. It is
// rendered to clients as-is with status 400.
type ValidationError struct {
	Fields map[string][]string
}

func NewFieldError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no problem was recorded. A nil receiver is empty.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns nil for an empty error so callers can `return v.OrNil()`
// without producing a typed-nil error.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
