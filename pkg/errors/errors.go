// Package errors provides the error taxonomy shared by every scoreprep package.
//
// Estimator-level failures use the typed errors below (ModelError,
// DimensionError, NotFittedError, ValueError, ValidationError). Pipeline
// stages report through a closed set of variants (IngestionError,
// TransformationError, SchemaError) that carry a StageContext describing
// where the failure happened.
//
// Stack traces are captured with github.com/cockroachdb/errors; print an
// error with %+v to see them.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Match them with errors.Is.
var (
	ErrEmptyData         = errors.New("empty data")
	ErrNotFitted         = errors.New("not fitted")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNotImplemented    = errors.New("not implemented")
	ErrMissingColumn     = errors.New("missing column")
	ErrInvalidValue      = errors.New("invalid value")
	ErrSingularMatrix    = errors.New("singular matrix")
)

const prefix = "scoreprep"

// ModelError is a failure inside an estimator operation.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) error {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error { return e.Err }

// DimensionError reports a shape mismatch along Axis (0 rows, 1 columns).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d",
		prefix, e.Op, axis, e.Expected, e.Got)
}

// Is reports ErrDimensionMismatch as matching.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// NotFittedError is returned when an estimator is used before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s: call Fit before %s", prefix, e.ModelName, e.Method)
}

// Is reports ErrNotFitted as matching.
func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// ValueError reports an invalid argument or data value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// Is reports ErrInvalidValue as matching.
func (e *ValueError) Is(target error) bool { return target == ErrInvalidValue }

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string, value interface{}) error {
	return &ValidationError{Field: field, Reason: reason, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s (%v): %s", prefix, e.Field, e.Value, e.Reason)
}

// New creates an error with a stack trace.
func New(msg string) error { return errors.New(msg) }

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

// Wrap annotates err with msg and a stack trace. Wrap(nil, ...) is nil.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message and a stack trace.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Recover converts a panic in the calling function into an error assigned to
// *err. Use it as `defer errors.Recover(&err, "Type.Method")`.
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		var cause error
		switch v := r.(type) {
		case error:
			cause = errors.WithStack(v)
		default:
			cause = errors.Newf("%v", v)
		}
		*err = NewModelError(op, "panic recovered", cause)
	}
}
