package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a checkout payload is malformed or
// incomplete. It never reaches a payment processor.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrGateway is returned when a payment processor rejected a request or was
// unreachable. A returned ErrGateway from payment creation means the payment
// must not be treated as created.
type ErrGateway struct {
	Provider string
	Op       string
	Message  string
	Err      error
}

func (e *ErrGateway) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Message)
	}
	return fmt.Sprintf("%s %s failed", e.Provider, e.Op)
}

func (e *ErrGateway) Unwrap() error {
	return e.Err
}

// ErrCapture is returned when the processor reports a non-success outcome for
// a synchronous capture. Callers must not finalize an order on it.
type ErrCapture struct {
	Provider        string
	ExternalOrderID string
	Status          string
	Detail          string
}

func (e *ErrCapture) Error() string {
	return fmt.Sprintf("%s capture of %s failed with status %q", e.Provider, e.ExternalOrderID, e.Status)
}
