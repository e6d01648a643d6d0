// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services and repositories return these errors; only the HTTP handlers (and
// the REST client adapter, in reverse) know how they map to status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrValidation              = errors.New("validation error")
	ErrDuplicateName           = errors.New("duplicate name")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrNotAuthorizedOrNotFound = errors.New("not authorized or not found")
	ErrNoUpdates               = errors.New("no updates")
	ErrForbidden               = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel the error belongs to
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateName is returned when an account with the exact same name exists,
// whether detected by the pre-insert lookup or by the store's UNIQUE index.
func DuplicateName(name string) *AppError {
	return &AppError{
		Err:     ErrDuplicateName,
		Message: "Такой волшебник уже числится в Хогвартсе.",
		Field:   "name",
	}
}

// InvalidCredentials does not say whether the name or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Неверное имя или пароль",
	}
}

// NotAuthorizedOrNotFound covers both "no such log" and "log owned by someone else".
func NotAuthorizedOrNotFound() *AppError {
	return &AppError{
		Err:     ErrNotAuthorizedOrNotFound,
		Message: "Not authorized or log not found",
	}
}

func NoUpdates() *AppError {
	return &AppError{
		Err:     ErrNoUpdates,
		Message: "No updates provided",
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Wire codes of the sentinels. They appear as the "error" field of API error
// bodies and let a remote client rebuild the domain error.
const (
	CodeNotFound                = "not_found"
	CodeValidation              = "validation_error"
	CodeDuplicateName           = "duplicate_name"
	CodeInvalidCredentials      = "invalid_credentials"
	CodeNotAuthorizedOrNotFound = "not_authorized_or_not_found"
	CodeNoUpdates               = "no_updates"
	CodeForbidden               = "forbidden"
	CodeInternal                = "internal_error"
)

var codes = []struct {
	code     string
	sentinel error
}{
	{CodeDuplicateName, ErrDuplicateName},
	{CodeInvalidCredentials, ErrInvalidCredentials},
	{CodeNotAuthorizedOrNotFound, ErrNotAuthorizedOrNotFound},
	{CodeNoUpdates, ErrNoUpdates},
	{CodeValidation, ErrValidation},
	{CodeNotFound, ErrNotFound},
	{CodeForbidden, ErrForbidden},
}

// Code returns the wire code for err, CodeInternal when err is not a domain error.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.sentinel) {
			return c.code
		}
	}
	return CodeInternal
}

// FromCode rebuilds a domain error from a wire code and message. Unknown
// codes (including CodeInternal) give a plain error.
func FromCode(code, message string) error {
	for _, c := range codes {
		if c.code == code {
			return &AppError{Err: c.sentinel, Message: message}
		}
	}
	return fmt.Errorf("%s: %s", code, message)
}
