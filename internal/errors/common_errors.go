package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMissingColumn    ErrorType = "MISSING_COLUMN"
	ErrTypeMissingFile      ErrorType = "MISSING_FILE"
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewMissingColumnError reports required columns absent from a table header.
// The cause is usually the caller's sentinel so errors.Is keeps working.
func NewMissingColumnError(table string, columns []string, cause error) *AppError {
	return NewAppError(ErrTypeMissingColumn,
		fmt.Sprintf("%s is missing required columns: %s", table, strings.Join(columns, ", ")), cause).
		WithContext("table", table).
		WithContext("columns", columns)
}

// NewMissingFileError reports an input file that does not exist
func NewMissingFileError(path string, cause error) *AppError {
	return NewAppError(ErrTypeMissingFile, fmt.Sprintf("input file %s not found", path), cause).
		WithContext("path", path)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewInsufficientDataError reports a computation that needs more observations
func NewInsufficientDataError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInsufficientData, message, cause)
}

// IsType reports whether any error in err's chain is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsFatal reports whether err aborts a run before any output is written.
// Missing columns and missing files are fatal, everything else is reported
// by the caller as it sees fit.
func IsFatal(err error) bool {
	return IsType(err, ErrTypeMissingColumn) || IsType(err, ErrTypeMissingFile)
}
