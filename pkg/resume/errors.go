package resume

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resume not found")
)

// MalformedInputError means the input text is not valid for the claimed format.
type MalformedInputError struct {
	Format string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return fmt.Sprintf("malformed %s input: %v", e.Format, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// FieldError names one offending field by its dotted path, e.g. "sections.skills.items.1.level".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation, not only the first one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Paths returns just the offending field paths.
func (e *ValidationError) Paths() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Field)
	}
	return out
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
