package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names the category of an engine error. Kinds are stable identifiers
// exposed to clients as exc_type / detail type.
type Kind string

const (
	KindNotFound              Kind = "NotFound"
	KindNoConversion          Kind = "NoConversion"
	KindUnderspecified        Kind = "Underspecified"
	KindOverpay               Kind = "Overpay"
	KindInvoiceComplete       Kind = "InvoiceComplete"
	KindNotRefundable         Kind = "NotRefundable"
	KindDecryptionError       Kind = "DecryptionError"
	KindSerializationConflict Kind = "SerializationConflict"
	KindUnauthorized          Kind = "Unauthorized"
	KindValidation            Kind = "Validation"
	KindConflict              Kind = "Conflict"
	KindInternal              Kind = "Internal"
)

// AppError is a structured error that maps to HTTP responses at the boundary.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(kind Kind, message string, httpStatus int) *AppError {
	return &AppError{Kind: kind, Message: message, HTTPStatus: httpStatus}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, message string, httpStatus int, err error) *AppError {
	return &AppError{Kind: kind, Message: message, HTTPStatus: httpStatus, Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ---- Engine errors ----

// NotFound reports a missing referenced entity.
func NotFound(entity string) *AppError {
	return New(KindNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// NoConversion reports currencies not connected in the conversion graph.
func NoConversion() *AppError {
	return New(KindNoConversion, "no conversion path between currencies", http.StatusUnprocessableEntity)
}

// Underspecified reports that neither amount nor effective_amount was supplied.
func Underspecified() *AppError {
	return New(KindUnderspecified, "either amount or effective_amount is required", http.StatusBadRequest)
}

// Overpay reports a transaction that would exceed the invoice unpaid amount.
func Overpay() *AppError {
	return New(KindOverpay, "amount exceeds invoice unpaid amount", http.StatusUnprocessableEntity)
}

// InvoiceComplete reports an operation that requires a non-complete invoice.
func InvoiceComplete() *AppError {
	return New(KindInvoiceComplete, "invoice is already complete", http.StatusBadRequest)
}

// NotRefundable reports a refund on a non-success transaction.
func NotRefundable() *AppError {
	return New(KindNotRefundable, "transaction is not refundable", http.StatusBadRequest)
}

// DecryptionError reports an unauthentic webhook payload.
func DecryptionError(err error) *AppError {
	return Wrap(KindDecryptionError, "payload decryption failed", http.StatusInternalServerError, err)
}

// SerializationConflict reports an aborted serializable transaction. The
// caller may retry the whole operation.
func SerializationConflict(err error) *AppError {
	return Wrap(KindSerializationConflict, "concurrent update, retry the request", http.StatusConflict, err)
}

// ---- Boundary errors ----

// Unauthorized reports missing or invalid credentials.
func Unauthorized() *AppError {
	return New(KindUnauthorized, "invalid credentials", http.StatusUnauthorized)
}

// Validation reports malformed caller input.
func Validation(message string) *AppError {
	return New(KindValidation, message, http.StatusBadRequest)
}

// Conflict reports a uniqueness violation on caller input.
func Conflict(message string) *AppError {
	return New(KindConflict, message, http.StatusConflict)
}

// Internal wraps an unexpected fault.
func Internal(err error) *AppError {
	return Wrap(KindInternal, "internal server error", http.StatusInternalServerError, err)
}
