package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of application error.
type ErrorCode int

// AppError is the error type returned by all services. Business-rule
// failures are reported as values of this type, never as panics.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal

	// Clinic-request admission and lifecycle codes.
	ErrInvalidEmail
	ErrInvalidPhone
	ErrInvalidDate
	ErrDuplicateRequest
	ErrRateLimited
	ErrInvalidTransition
	ErrStore
)

// Code extracts the ErrorCode from err, unwrapping as needed.
// Non-application errors map to ErrInternal.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func NewUnauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func NewInvalidEmail(email string) *AppError {
	return &AppError{
		Code:    ErrInvalidEmail,
		Message: fmt.Sprintf("invalid email address: %s", email),
	}
}

func NewInvalidPhone(phone string) *AppError {
	return &AppError{
		Code:    ErrInvalidPhone,
		Message: fmt.Sprintf("invalid phone number: %s", phone),
	}
}

func NewInvalidDate(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidDate,
		Message: message,
	}
}

func NewDuplicateRequest(subjectID string) *AppError {
	return &AppError{
		Code:    ErrDuplicateRequest,
		Message: fmt.Sprintf("patient %s already has a pending clinic request", subjectID),
	}
}

func NewRateLimited(message string) *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: message,
	}
}

func NewInvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: fmt.Sprintf("cannot transition request from %s to %s", from, to),
	}
}

func NewStore(err error) *AppError {
	return &AppError{
		Code:    ErrStore,
		Message: "persistence failure",
		Err:     err,
	}
}
