// Package errors provides error code definitions for hamster-export.
package errors

import "fmt"

// ErrorCode represents a unique, user-visible error code.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Database errors
	ErrDatabase          ErrorCode = "DATABASE_ERROR"
	ErrDatabaseNotFound  ErrorCode = "DATABASE_NOT_FOUND"
	ErrSchemaUnsupported ErrorCode = "SCHEMA_UNSUPPORTED"

	// Query errors
	ErrInvalidFilter ErrorCode = "INVALID_FILTER"
	ErrInvalidRange  ErrorCode = "INVALID_RANGE"

	// Export errors
	ErrExportFailed      ErrorCode = "EXPORT_FAILED"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrArchiveFailed     ErrorCode = "ARCHIVE_FAILED"
	ErrCorruptedArchive  ErrorCode = "CORRUPTED_ARCHIVE"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code, unwrapping nested AppErrors.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		appErr, ok := err.(*AppError)
		if !ok {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}
