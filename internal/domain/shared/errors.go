package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrUnknownProduct      = NewDomainError("UNKNOWN_PRODUCT", "Product does not exist")
	ErrUnknownCustomer     = NewDomainError("UNKNOWN_CUSTOMER", "Customer does not exist")
)

// PermanentError marks an error as non-retryable. Consumers use it to decide
// whether a failed event should be redelivered (transient) or acknowledged and
// routed to the failure record (permanent). Retrying a permanent error would
// produce the same rejection every time.
type PermanentError struct {
	Err error
}

// Error implements the error interface
func (e *PermanentError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error so errors.Is/As keep working
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err as permanent
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether any error in the chain is permanent
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
