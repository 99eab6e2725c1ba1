// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"

	"go-pos-inventory/pkg/validator"

	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation             Kind = "validation"
	KindNotFound               Kind = "not_found"
	KindAuthentication         Kind = "authentication"
	KindAuthorization          Kind = "authorization"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindInternal               Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  []*validator.ErrorResponse
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidStateTransition:
		return 400
	case KindAuthentication:
		return 401
	case KindAuthorization:
		return 403
	case KindNotFound:
		return 404
	case KindInsufficientStock:
		return 409
	default:
		return 500
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// InvalidFields builds a ValidationError carrying the field-level list from pkg/validator.
func InvalidFields(fields []*validator.ErrorResponse) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func InsufficientStock(productName string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for '%s': available %d, requested %d", productName, available, requested),
	}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("cannot change status from '%s' to '%s'", from, to),
	}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the taxonomy kind of err. Untyped errors count as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// FromDB classifies a persistence error. entity names the record for not-found messages.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Validation(entity + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Validation(entity + " references a record that does not exist or is still in use")
	default:
		return Internal(err)
	}
}

// As converts any error into an *Error, wrapping unknown errors as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
