package apperr

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure of the pipeline.
type ErrorType string

const (
	ErrTypeDataLoad   ErrorType = "DATA_LOAD"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeExport     ErrorType = "EXPORT"
)

// ErrInputExhausted is returned by the interactive prompts when the input
// stream ends before a valid answer was read.
var ErrInputExhausted = errors.New("input exhausted before a valid selection was made")

// DataLoadError reports a missing or malformed input file or column.
type DataLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("[%s] %s", ErrTypeDataLoad, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error {
	return e.Cause
}

// NewDataLoadError creates a load error for the given source path.
func NewDataLoadError(path, message string, cause error) *DataLoadError {
	return &DataLoadError{Path: path, Message: message, Cause: cause}
}

// ValidationError describes a rejected console answer. It never leaves the
// selector; the prompt is simply repeated.
type ValidationError struct {
	Field string
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] invalid %s: %q", ErrTypeValidation, e.Field, e.Input)
}

// ExportError reports a failure writing one of the output files.
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("[%s] failed to write %s: %v", ErrTypeExport, e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates an export error for the given target path.
func NewExportError(path string, cause error) *ExportError {
	return &ExportError{Path: path, Cause: cause}
}

// IsDataLoad reports whether err is, or wraps, a DataLoadError.
func IsDataLoad(err error) bool {
	var target *DataLoadError
	return errors.As(err, &target)
}

// IsExport reports whether err is, or wraps, an ExportError.
func IsExport(err error) bool {
	var target *ExportError
	return errors.As(err, &target)
}
