package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or missing birth input.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream marks a failure of the external chart computation service:
	// unreachable, non-success status, unusable body or missing credentials.
	ErrUpstream = errors.New("upstream computation failed")

	// ErrMissingAPIKey is returned before any request is sent when no API key is configured.
	ErrMissingAPIKey = fmt.Errorf("%w: api key not configured", ErrUpstream)

	// ErrNotFound is the parent of every lookup miss.
	ErrNotFound = errors.New("not found")

	ErrBirthRecordNotFound = fmt.Errorf("birth record %w", ErrNotFound)
	ErrChartNotFound       = fmt.Errorf("chart artifact %w", ErrNotFound)
)

// FieldError is a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rejected field of a BirthInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s (em %q)", f.Message, f.Field))
	}
	return "Erro de validação: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
