package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Stage names a pipeline stage.
type Stage string

const (
	StageIngestion      Stage = "ingestion"
	StageTransformation Stage = "transformation"
)

// NoRow marks a StageContext that does not refer to a particular row.
const NoRow = -1

// StageContext records where in the pipeline a failure happened.
type StageContext struct {
	Stage Stage
	Path  string
	Row   int
}

func (c StageContext) String() string {
	s := string(c.Stage)
	if c.Path != "" {
		s += " path=" + c.Path
	}
	if c.Row != NoRow {
		s += fmt.Sprintf(" row=%d", c.Row)
	}
	return s
}

// IngestionError is returned by the ingestion stage.
type IngestionError struct {
	Context StageContext
	Err     error
}

// NewIngestionError wraps cause with ingestion context. Returns nil when
// cause is nil.
func NewIngestionError(path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &IngestionError{
		Context: StageContext{Stage: StageIngestion, Path: path, Row: NoRow},
		Err:     errors.WithStack(cause),
	}
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%s: ingestion failed [%s]: %v", prefix, e.Context, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

func (e *IngestionError) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

func (e *IngestionError) FormatError(p errors.Printer) error {
	p.Printf("%s: ingestion failed [%s]", prefix, e.Context)
	return e.Err
}

// TransformationError is returned by the transformation stage.
type TransformationError struct {
	Context StageContext
	Err     error
}

// NewTransformationError wraps cause with transformation context. Returns nil
// when cause is nil.
func NewTransformationError(path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &TransformationError{
		Context: StageContext{Stage: StageTransformation, Path: path, Row: NoRow},
		Err:     errors.WithStack(cause),
	}
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("%s: transformation failed [%s]: %v", prefix, e.Context, e.Err)
}

func (e *TransformationError) Unwrap() error { return e.Err }

func (e *TransformationError) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

func (e *TransformationError) FormatError(p errors.Printer) error {
	p.Printf("%s: transformation failed [%s]", prefix, e.Context)
	return e.Err
}

// SchemaError reports a table that does not match the expected columns or
// holds a value that cannot be interpreted.
type SchemaError struct {
	Columns []string
	Row     int
	Reason  string
}

// NewMissingColumnsError reports columns absent from a table.
func NewMissingColumnsError(columns ...string) error {
	return &SchemaError{Columns: columns, Row: NoRow, Reason: "missing required columns"}
}

// NewCellError reports an unusable value at row in column.
func NewCellError(column string, row int, reason string) error {
	return &SchemaError{Columns: []string{column}, Row: row, Reason: reason}
}

func (e *SchemaError) Error() string {
	if e.Row != NoRow {
		return fmt.Sprintf("%s: schema: %s %v at row %d", prefix, e.Reason, e.Columns, e.Row)
	}
	return fmt.Sprintf("%s: schema: %s %v", prefix, e.Reason, e.Columns)
}

// Is reports ErrMissingColumn as matching when columns are absent.
func (e *SchemaError) Is(target error) bool {
	return target == ErrMissingColumn && e.Row == NoRow
}
