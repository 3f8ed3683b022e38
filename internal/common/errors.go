package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrTokenExpired  = errors.New("token invalid or expired")
	ErrChunkMissing  = errors.New("chunk not found")
	ErrInternal      = errors.New("internal error")
	ErrDatabase      = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InputError builds an input-taxonomy error that handlers render as a
// {success:false, error} envelope.
func InputError(message string) error {
	return NewAppError("INPUT_ERROR", message, ErrInvalidInput)
}

func InputErrorf(format string, args ...interface{}) error {
	return InputError(fmt.Sprintf(format, args...))
}
