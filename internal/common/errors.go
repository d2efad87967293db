package common

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeInputDir   = "INPUT_DIR"
	CodeOutputDir  = "OUTPUT_DIR"
	CodeValidation = "VALIDATION"
	CodePublish    = "PUBLISH"
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
	ErrInvalidInput = errors.New("invalid input")
	ErrInputDir     = errors.New("input directory unavailable")
	ErrOutputDir    = errors.New("output directory not writable")
	ErrValidation   = errors.New("validation failed")
	ErrPublish      = errors.New("publish failed")
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

// IsFatal reports whether err belongs to the run-aborting part of the taxonomy.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputDir) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPublish)
}
