// Package apperror is the error taxonomy of the application. Services
// return *AppError for every business failure; the HTTP error middleware
// maps it straight onto the response, so codes and messages here are
// part of the API contract.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal = "INTERNAL_ERROR"

	CodeValidation = "VALIDATION_ERROR"

	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInsufficientPayment = "INSUFFICIENT_PAYMENT"
	CodeInvalidState        = "INVALID_STATE"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	CodeNotFound = "NOT_FOUND"

	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus steers the middleware; Err is the wrapped cause, logged
	// server-side and never serialized.
	HTTPStatus int   `json:"-"`
	Err        error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock carries enough detail for the client to show which
// product ran short and by how much. Callers identify the product by its
// human-assigned code, not the uuid.
func NewInsufficientStock(productCode string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_code": productCode,
			"requested":    requested,
			"available":    available,
		},
	}
}

func NewInsufficientPayment(required, paid string) *AppError {
	return &AppError{
		Code:       CodeInsufficientPayment,
		Message:    "Payment amount is less than the transaction total",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"required": required,
			"paid":     paid,
		},
	}
}

// NewInvalidState rejects operations the entity's current status does not
// permit, e.g. canceling an already-canceled transaction.
func NewInvalidState(entity, current string) *AppError {
	return &AppError{
		Code:       CodeInvalidState,
		Message:    fmt.Sprintf("%s is not in a state that allows this operation", entity),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "status": current},
	}
}

// NewInternal wraps an infrastructure failure. The cause is kept for the
// log; the client only ever sees the generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewConcurrentModification reports an optimistic-lock update that
// matched zero rows.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    fmt.Sprintf("%s was modified by another operation", entity),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": fmt.Sprintf("%v", id)},
	}
}

func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
