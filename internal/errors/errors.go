package errors

import (
	stderrors "errors"
	"fmt"

	"surveyclean/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeNotFound        = "NOT_FOUND"
	CodeSchemaMismatch  = "SCHEMA_MISMATCH"
	CodeColumnSelection = "COLUMN_SELECTION"
	CodeIOError         = "IO_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IOError wraps a failed file operation on path
func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("i/o on %s failed", path),
		Cause:   cause,
	}
}

// Classify wraps err with the code matching its domain sentinel
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	switch {
	case stderrors.Is(err, core.ErrColumnSelection):
		code = CodeColumnSelection
	case stderrors.Is(err, core.ErrSchemaMismatch):
		code = CodeSchemaMismatch
	case core.IsNotFoundError(err):
		code = CodeNotFound
	case stderrors.Is(err, core.ErrEmptyInput):
		code = CodeInvalidInput
	case IsAppError(err):
		code = GetCode(err)
	}
	return &AppError{Code: code, Message: message, Cause: err}
}
