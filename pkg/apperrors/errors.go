// Package apperrors defines the error taxonomy shared by the extraction,
// matching, conversion and ingestion services. Callers classify failures
// with errors.Is against the sentinels below.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input to a create/update call
	// (missing required id, invalid enum value). Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity or context that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation that would violate an invariant,
	// e.g. reprocessing minutes that already have conversations without
	// the force flag.
	ErrConflict = errors.New("conflict")

	// ErrUnprocessableSource marks a transcript source that could not be
	// obtained (no usable URI, fetch unavailable).
	ErrUnprocessableSource = errors.New("unprocessable source")

	// ErrProcessing marks source text that yielded nothing extractable.
	ErrProcessing = errors.New("processing failed")

	// ErrInvalidState marks a programming-contract violation, e.g. asking
	// to convert a candidate that is not in matched state.
	ErrInvalidState = errors.New("invalid state")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrValidation, args)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrNotFound, args)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrConflict, args)...)
}

// UnprocessableSourcef wraps ErrUnprocessableSource with a formatted message.
func UnprocessableSourcef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrUnprocessableSource, args)...)
}

// Processingf wraps ErrProcessing with a formatted message.
func Processingf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrProcessing, args)...)
}

// InvalidStatef wraps ErrInvalidState with a formatted message.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, prepend(ErrInvalidState, args)...)
}

func prepend(err error, args []any) []any {
	return append([]any{err}, args...)
}
