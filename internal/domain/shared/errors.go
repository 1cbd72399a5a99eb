package shared

// DomainError is a business-rule failure. Code is machine-readable and stable
// across releases; Message is safe to show to an institution admin.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code, so a specific
// "Class not found" still satisfies errors.Is(err, ErrNotFound).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Unwrap exposes the infrastructure error this one was raised from, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy that records the underlying error for logging.
// The message shown to callers does not change.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, cause: cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Institution was modified by another request")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this institution is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrPaymentProvider     = NewDomainError("PAYMENT_PROVIDER", "Payment provider request failed")
)
