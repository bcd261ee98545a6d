package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrNotFound indicates the requested resource does not exist.
var ErrNotFound = stderrors.New("not found")

// ErrConflict indicates a same-kind operation is already in flight for the
// session (promo application, confirm).
var ErrConflict = stderrors.New("operation already in progress")

// ValidationError is a locally detected input error. It blocks the attempted
// action and is rendered next to the offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError is a structured rejection from the payment provider or
// pricing API. The message is surfaced to the caller verbatim and the
// attempt may be retried.
type ProviderError struct {
	Message string
	Code    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// NewProviderError creates a provider rejection error.
func NewProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// TransportError wraps a network or non-2xx failure talking to an external
// service. The detail carries the response body text when one was available.
type TransportError struct {
	Service string
	Detail  string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Service, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport failure for a named service.
func NewTransportError(service, detail string, err error) *TransportError {
	return &TransportError{Service: service, Detail: detail, Err: err}
}
