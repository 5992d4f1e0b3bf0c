package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects request validation failures per field. Field
// names follow the request shape, with nested entries such as
// "products.0.product_id". All failing fields are reported, never just the
// first one.
type ValidationError struct {
	fields map[string][]string
}

// NewValidationError returns an empty collector.
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

// Add records a failure message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	e.fields[field] = append(e.fields[field], message)
}

// Has reports whether any failure was recorded.
func (e *ValidationError) Has() bool {
	return e != nil && len(e.fields) > 0
}

// Fields exposes the field -> messages map for the error response body.
func (e *ValidationError) Fields() map[string][]string {
	return e.fields
}

// Error renders the failures in deterministic field order.
func (e *ValidationError) Error() string {
	if !e.Has() {
		return "validation failed"
	}

	fields := make([]string, 0, len(e.fields))
	for field := range e.fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
