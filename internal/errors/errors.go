package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrNotFound = errors.New("record not found")

// Kind classifies an AppError for the transport layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindProvider     Kind = "provider"
	KindNotFound     Kind = "not_found"
	KindCapacity     Kind = "capacity"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// AppError is the single error shape used from the repositories up to the handlers.
// Code and Details carry the backend's machine-readable information and are kept
// intact by Wrap.
type AppError struct {
	Kind    Kind
	Message string
	Code    string
	Details string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindProvider {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation reports bad input detected before any backend call.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Capacity reports a booking that does not fit the remaining seats.
func Capacity(message string) *AppError {
	return &AppError{Kind: KindCapacity, Message: message}
}

// NotFound reports a missing record.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Err: ErrNotFound}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message, Err: ErrUnauthorized}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message, Err: ErrForbidden}
}

// Provider wraps an error returned by the database driver. Postgres errors
// contribute their SQLSTATE code and detail text.
func Provider(op string, err error) *AppError {
	if err == nil {
		return nil
	}
	appErr := &AppError{Kind: KindProvider, Message: op + " failed", Err: err}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		appErr.Code = string(pqErr.Code)
		appErr.Details = pqErr.Detail
		if appErr.Details == "" {
			appErr.Details = pqErr.Message
		}
		// P0001 is raise_exception from a PL/pgSQL function; its message is user facing
		if pqErr.Code == "P0001" {
			appErr.Kind = KindValidation
			if strings.HasPrefix(pqErr.Message, "only ") {
				appErr.Kind = KindCapacity
			}
			appErr.Message = pqErr.Message
		}
	}
	return appErr
}

// Wrap prefixes the message of err while keeping its kind, code and details.
// Errors that are not AppErrors become provider errors.
func Wrap(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Kind:    appErr.Kind,
			Message: prefix + ": " + appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
			Err:     appErr.Err,
		}
	}
	return &AppError{Kind: KindProvider, Message: prefix, Err: err}
}

// KindOf returns the kind of err, defaulting to provider for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}
	return KindProvider
}

// As is re-exported so callers do not need both errors packages.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}
