package framework

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AggregatedError aggregates multiple errors.
type AggregatedError struct {
	Errors []error
}

// Error implements error
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := make([]string, len(e.Errors)+1)
	msg[0] = "Multiple errors:"
	for n, err := range e.Errors {
		msg[n+1] = err.Error()
	}
	return strings.Join(msg, "\n")
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns aggregated error if any error happened.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *AggregatedError) Unwrap() []error {
	return e.Errors
}

// Fatal returns the first FatalError found among aggregated errors.
func (e *AggregatedError) Fatal() *FatalError {
	var fe *FatalError
	if errors.As(e, &fe) {
		return fe
	}
	return nil
}

// FatalError is a condition the rover can't recover from.
// Once any actor returns one, the whole system halts.
type FatalError struct {
	// Code identifies the condition, usually the offending message type.
	Code int
	// Op is the operation in progress.
	Op  string
	Err error
}

// Fatal creates a FatalError.
func Fatal(code int, op string, err error) *FatalError {
	return &FatalError{Code: code, Op: op, Err: err}
}

// Error implements error.
func (e *FatalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fatal %d: %s", e.Code, e.Op)
	}
	return fmt.Sprintf("fatal %d: %s: %v", e.Code, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal determines if err is or wraps a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsCanceled determines if err only reflects a canceled context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
