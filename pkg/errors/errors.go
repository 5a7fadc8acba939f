// Package errors provides coded errors for dotmgr.
//
// Every error returned across package boundaries carries an ErrorCode so the
// CLI and tests can tell user mistakes apart from filesystem or repository
// failures without matching on message text.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// User input errors: missing arguments, misused modifiers, bad paths
	ErrUserInput      ErrorCode = "USER_INPUT"
	ErrNotTracked     ErrorCode = "NOT_TRACKED"
	ErrAlreadyTracked ErrorCode = "ALREADY_TRACKED"

	// Configuration errors are fatal at startup
	ErrConfig      ErrorCode = "CONFIG"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors abort a single file's operation
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFilesystem   ErrorCode = "FILESYSTEM"
	ErrSymlink      ErrorCode = "SYMLINK"

	// Repository errors are fatal to the enclosing action
	ErrRepository ErrorCode = "REPOSITORY"

	// Batch errors summarize failures of an "all" sweep
	ErrBatch ErrorCode = "BATCH"
)

// DotmgrError represents a structured error with code and details
type DotmgrError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotmgrError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotmgrError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotmgrError) Is(target error) bool {
	var targetErr *DotmgrError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotmgrError with the given code and message
func New(code ErrorCode, message string) *DotmgrError {
	return &DotmgrError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotmgrError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotmgrError {
	return &DotmgrError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotmgrError
func Wrap(err error, code ErrorCode, message string) *DotmgrError {
	if err == nil {
		return nil
	}
	return &DotmgrError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotmgrError {
	if err == nil {
		return nil
	}
	return &DotmgrError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotmgrError) WithDetail(key string, value interface{}) *DotmgrError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dotmgrErr *DotmgrError
	if errors.As(err, &dotmgrErr) {
		return dotmgrErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotmgrError
func GetErrorCode(err error) ErrorCode {
	var dotmgrErr *DotmgrError
	if errors.As(err, &dotmgrErr) {
		return dotmgrErr.Code
	}
	return ErrUnknown
}

// IsUserError reports whether err was caused by how dotmgr was invoked
// rather than by the environment.
func IsUserError(err error) bool {
	switch GetErrorCode(err) {
	case ErrUserInput, ErrNotTracked, ErrAlreadyTracked, ErrFileNotFound:
		return true
	}
	return false
}

// BatchError collects the failures of a sweep over all tracked dotfiles.
// The sweep keeps going after a failure; the BatchError is returned once it
// has finished.
type BatchError struct {
	Operation string
	Failures  map[string]error
	order     []string
}

// NewBatchError creates an empty BatchError for the named operation
func NewBatchError(operation string) *BatchError {
	return &BatchError{
		Operation: operation,
		Failures:  make(map[string]error),
	}
}

// Add records the failure of one path
func (b *BatchError) Add(path string, err error) {
	if _, seen := b.Failures[path]; !seen {
		b.order = append(b.order, path)
	}
	b.Failures[path] = err
}

// Paths returns the failed paths in the order they were recorded
func (b *BatchError) Paths() []string {
	return append([]string(nil), b.order...)
}

// Len returns the number of failed paths
func (b *BatchError) Len() int {
	return len(b.order)
}

// ErrOrNil returns the BatchError as a coded error, or nil when nothing failed
func (b *BatchError) ErrOrNil() error {
	if b.Len() == 0 {
		return nil
	}
	return Wrapf(b, ErrBatch, "%s failed for %d file(s)", b.Operation, b.Len()).
		WithDetail("paths", b.Paths())
}

// Error implements the error interface
func (b *BatchError) Error() string {
	parts := make([]string, 0, len(b.order))
	for _, path := range b.order {
		parts = append(parts, fmt.Sprintf("%s: %v", path, b.Failures[path]))
	}
	return strings.Join(parts, "; ")
}
