// Package apperror defines the error vocabulary shared by the domain
// services and the HTTP layer. Services return *AppError for every expected
// failure; the error middleware maps it to a response without inspecting
// error strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes. Clients branch on these, never on messages.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeOverpayment            = "OVERPAYMENT"
	CodeForbiddenTransition    = "FORBIDDEN_TRANSITION"
	CodeHasPayments            = "PURCHASE_HAS_PAYMENTS"
	CodeAlreadyConverted       = "LEAD_ALREADY_CONVERTED"
	CodeEMISalePayment         = "EMI_SALE_PAYMENT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict    = "CONFLICT"
	CodeDuplicate   = "DUPLICATE_ENTRY"
	CodeIdempotency = "IDEMPOTENCY_CONFLICT"
)

// AppError carries a stable code, a human message, and structured details.
// HTTPStatus is advice for the transport layer and never serialized.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, amounts, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key-value pair for the API response body.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factories ---

// NewValidation reports malformed or incomplete input (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound reports a missing entity, scoped by type and id (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule reports a domain invariant violation under a caller-chosen
// code (422).
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewOverpayment is returned when a proposed payment exceeds the open balance.
func NewOverpayment(requested, available string) *AppError {
	return &AppError{
		Code:       CodeOverpayment,
		Message:    "Payment exceeds outstanding balance",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"requested": requested,
			"available": available,
		},
	}
}

// NewForbiddenTransition is returned when a state change violates the lifecycle.
func NewForbiddenTransition(entity, from, to string) *AppError {
	return &AppError{
		Code:       CodeForbiddenTransition,
		Message:    fmt.Sprintf("Transition %s -> %s is not allowed", from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "from": from, "to": to},
	}
}

// NewHasPayments is returned when deleting a purchase with recorded payments.
func NewHasPayments(purchaseID any, amountPaid string) *AppError {
	return &AppError{
		Code:       CodeHasPayments,
		Message:    "Cannot delete a purchase that has recorded payments",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"purchase_id": purchaseID, "amount_paid": amountPaid},
	}
}

// NewAlreadyConverted is returned on a repeated lead conversion attempt.
func NewAlreadyConverted(leadID any) *AppError {
	return &AppError{
		Code:       CodeAlreadyConverted,
		Message:    "Lead is already converted",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"lead_id": leadID},
	}
}

// NewEMISalePayment is returned when a direct payment targets an EMI-financed sale.
func NewEMISalePayment(saleID any) *AppError {
	return &AppError{
		Code:       CodeEMISalePayment,
		Message:    "Payments for EMI sales are managed by the EMI schedule",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"sale_id": saleID},
	}
}

// NewConcurrentModification reports a lost optimistic-lock race: the row's
// version moved between read and write.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal wraps an unexpected error. The cause stays server-side; the
// client sees only a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized reports missing or invalid credentials (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden reports an authenticated caller without rights (403).
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict reports a state conflict, such as deleting a referenced
// counterparty (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate reports a unique-constraint collision on a business field (409).
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewIdempotencyConflict is returned while another request holds the same
// idempotency key.
func NewIdempotencyConflict(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Operation already in progress or completed",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// NewIdempotencyMismatch is returned when the same idempotency key is reused for
// a different request (different user/operation/body hash).
func NewIdempotencyMismatch(key string) *AppError {
	return &AppError{
		Code:       CodeIdempotency,
		Message:    "Idempotency key mismatch",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"idempotency_key": key},
	}
}

// --- Predicates ---

// IsAppError reports whether err has an AppError in its chain.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts the AppError from err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus maps any error to an HTTP status, defaulting to 500.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsCode checks if error carries the given machine code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsConcurrentModification reports whether err is a version conflict.
func IsConcurrentModification(err error) bool {
	return IsCode(err, CodeConcurrentModification)
}

// IsOverpayment reports whether err is a balance overflow.
func IsOverpayment(err error) bool {
	return IsCode(err, CodeOverpayment)
}
