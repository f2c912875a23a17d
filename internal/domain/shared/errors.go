package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is works against the
// sentinel errors below regardless of the message
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError("NOT_FOUND", message)
}

// NewInvalidInputError creates an invalid-input error with a specific message
func NewInvalidInputError(message string) *DomainError {
	return NewDomainError("INVALID_INPUT", message)
}

// NewInvalidStateError creates an invalid-state error with a specific message
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError("INVALID_STATE", message)
}

// NewConflictError creates a conflict error with a specific message
func NewConflictError(message string) *DomainError {
	return NewDomainError("CONFLICT", message)
}

// NewAlreadyExistsError creates an already-exists error with a specific message
func NewAlreadyExistsError(message string) *DomainError {
	return NewDomainError("ALREADY_EXISTS", message)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
