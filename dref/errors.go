package dref

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNilBinding is returned when a Ref is built or read through a nil
	// binding. It usually means a zero-value RefBuilder or Ref escaped its
	// constructor.
	ErrNilBinding = errors.New("dref: nil binding")

	// ErrRegistryPanic is returned if a Registry implementation panics
	// internally during Lookup.
	ErrRegistryPanic = errors.New("dref: panic during registry lookup")
)

// ConfigurationError reports an invalid Binding configuration.
//
// It is produced by New, before any Ref exists, so a binding that constructs
// at all is guaranteed internally consistent.
type ConfigurationError struct {
	// Ident is the diagnostic name of the binding being configured.
	Ident string

	// Reason describes what is wrong with the configuration.
	Reason string
}

// Error implements the error interface.
func (e ConfigurationError) Error() string {
	// Example: dref: invalid binding "invoice.account": weak binding requires a getter
	return "dref: invalid binding " + strconv.Quote(e.Ident) + ": " + e.Reason
}

// MissingParentError is returned when a Ref was built with neither a parent
// object nor a parent identifier.
type MissingParentError struct {
	// Ident is the binding's diagnostic name.
	Ident string

	// What is the role name of the parent reference.
	What string
}

// Error implements the error interface.
func (e MissingParentError) Error() string {
	// Example: dref: "invoice.account": neither account object nor account id supplied
	return "dref: " + strconv.Quote(e.Ident) + ": neither " + e.What +
		" object nor " + e.What + " id supplied"
}

// InconsistentParentError is returned when both a parent object and a parent
// identifier were supplied but the identifier derived from the object does
// not equal the supplied one.
//
// The mismatch is a construction-time failure, never a silent override.
type InconsistentParentError struct {
	// Ident is the binding's diagnostic name.
	Ident string

	// What is the role name of the parent reference.
	What string

	// Supplied is the identifier given by the caller.
	Supplied any

	// Derived is the identifier computed from the supplied parent object.
	Derived any
}

// Error implements the error interface.
func (e InconsistentParentError) Error() string {
	// Example: dref: "invoice.account": supplied account id 7 does not match derived id 9
	return fmt.Sprintf("dref: %q: supplied %s id %v does not match derived id %v",
		e.Ident, e.What, e.Supplied, e.Derived)
}

// UnresolvableIdentifierError is returned when only an identifier was
// supplied and the binding has no getter, so the parent object can never be
// resolved.
type UnresolvableIdentifierError struct {
	// Ident is the binding's diagnostic name.
	Ident string

	// What is the role name of the parent reference.
	What string
}

// Error implements the error interface.
func (e UnresolvableIdentifierError) Error() string {
	// Example: dref: "invoice.account": account id supplied but no getter configured
	return "dref: " + strconv.Quote(e.Ident) + ": " + e.What +
		" id supplied but no getter configured"
}

// ResolutionError wraps a failure of the binding's getter or identify
// function during lazy resolution.
//
// The underlying error is propagated unchanged via Unwrap; nothing is
// retried or swallowed.
type ResolutionError struct {
	// Ident is the binding's diagnostic name.
	Ident string

	// Op is the operation that failed: "getter" or "identify".
	Op string

	// Err is the failure returned by the callback.
	Err error
}

// Error implements the error interface.
func (e ResolutionError) Error() string {
	// Example: dref: "invoice.account": getter failed: connection refused
	return "dref: " + strconv.Quote(e.Ident) + ": " + e.Op + " failed: " + e.Err.Error()
}

// Unwrap returns the callback's original error.
func (e ResolutionError) Unwrap() error { return e.Err }

// NotFoundError is returned by registry-backed getters when no parent is
// registered under the requested identifier.
type NotFoundError struct {
	// ID is the identifier that had no registered parent.
	ID any
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	// Example: dref: no parent registered for id 42
	return fmt.Sprintf("dref: no parent registered for id %v", e.ID)
}
