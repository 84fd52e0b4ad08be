// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error
// kinds and human-friendly messages, so the CLI surface can distinguish failures
// that must reach the user (checkout preconditions) from ones that degrade
// silently (background refreshes).
//
// The package supports wrapping underlying errors while maintaining error kind
// information.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// NotAuthenticated indicates an operation requiring a session ran without one.
	NotAuthenticated Kind = "not_authenticated"
	// NothingSelected indicates a checkout selection resolved to no cart items.
	NothingSelected Kind = "nothing_selected"
	// PurchaseCreateFailed indicates the purchase header insert failed or returned nothing.
	PurchaseCreateFailed Kind = "purchase_create_failed"
	// BackendUnreachable indicates the hosted backend could not be reached.
	BackendUnreachable Kind = "backend_unreachable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped error for errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*E)
	return ok && e.Kind == kind
}
