package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrentModification is used when optimistic locking fails
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	// ErrCodeConcurrencyConflict is used when a save races another process
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Business rule error codes raised by document transitions
const (
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeUnconfiguredPricing is used when a product has no duration price table
	ErrCodeUnconfiguredPricing = "UNCONFIGURED_PRICING"
	// ErrCodeUnsupportedDurationUnit is used when a price table lacks the requested unit
	ErrCodeUnsupportedDurationUnit = "UNSUPPORTED_DURATION_UNIT"
	// ErrCodeMissingRentalPeriod is used when a document or line has no usable period
	ErrCodeMissingRentalPeriod = "MISSING_RENTAL_PERIOD"
	// ErrCodeMissingOperationType is used when a stock operation type is not configured
	ErrCodeMissingOperationType = "MISSING_OPERATION_TYPE"
	// ErrCodeMissingWarehouse is used when no default warehouse exists for the company
	ErrCodeMissingWarehouse = "MISSING_WAREHOUSE"
	// ErrCodeNoActiveLines is used when a transition finds nothing to act on
	ErrCodeNoActiveLines = "NO_ACTIVE_LINES"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:               http.StatusNotFound,
	ErrCodeAlreadyExists:          http.StatusConflict,
	ErrCodeConcurrentModification: http.StatusConflict,
	ErrCodeConcurrencyConflict:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeUnconfiguredPricing:     http.StatusUnprocessableEntity,
	ErrCodeUnsupportedDurationUnit: http.StatusUnprocessableEntity,
	ErrCodeMissingRentalPeriod:     http.StatusUnprocessableEntity,
	ErrCodeMissingOperationType:    http.StatusUnprocessableEntity,
	ErrCodeMissingWarehouse:        http.StatusUnprocessableEntity,
	ErrCodeNoActiveLines:           http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
