package shared

import "errors"

// DomainError is a business-rule violation with a stable machine code.
// Handlers map the code to an HTTP status; the message is user-facing.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so wrapped errors with customized
// messages still compare equal to the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// NewDomainError creates a domain error with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across aggregates.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes for the rental fulfillment engine. Configuration errors are
// fatal and abort a transition before any state is mutated; data-integrity
// errors are handled at line granularity by the caller.
const (
	ErrCodeUnconfiguredPricing     = "UNCONFIGURED_PRICING"
	ErrCodeUnsupportedDurationUnit = "UNSUPPORTED_DURATION_UNIT"
	ErrCodeMissingRentalPeriod     = "MISSING_RENTAL_PERIOD"
	ErrCodeMissingOperationType    = "MISSING_OPERATION_TYPE"
	ErrCodeMissingWarehouse        = "MISSING_WAREHOUSE"
	ErrCodeNoActiveLines           = "NO_ACTIVE_LINES"
)
