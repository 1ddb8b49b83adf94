// Package domain defines the core domain models for xrpc.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "XR-RPC-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error.
// Remote faults report the code of ErrRemoteFault.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var fe *FaultError
	if errors.As(err, &fe) {
		return ErrRemoteFault.Code
	}
	return ""
}

// ============================================================================
// Call Errors
// ============================================================================

var (
	// ErrMissingMethod indicates Invoke was called without a method name.
	ErrMissingMethod = NewDomainError("XR-ARG-1002", "missing method name")

	// ErrTransport indicates the exchange produced no usable response
	// (network, DNS, timeout, bad status, empty or undecodable body).
	ErrTransport = NewDomainError("XR-TRAN-5020", "transport failure")

	// ErrRemoteFault indicates the remote end answered with a fault.
	ErrRemoteFault = NewDomainError("XR-RPC-4000", "remote fault")
)

// ============================================================================
// Authentication Errors
// ============================================================================

var (
	// ErrAPIKeyMissing indicates key authentication was requested without an API key.
	ErrAPIKeyMissing = NewDomainError("XR-AUTH-4010", "api key not configured")

	// ErrNonce indicates the nonce source failed.
	ErrNonce = NewDomainError("XR-AUTH-5001", "nonce generation failed")
)

// FaultError is a well-formed fault returned by the remote end.
type FaultError struct {
	Code    int
	Message string
}

// NewFaultError creates a FaultError.
func NewFaultError(code int, message string) *FaultError {
	return &FaultError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	return fmt.Sprintf("xmlrpc: %s (%d)", e.Message, e.Code)
}

// Is reports whether target is ErrRemoteFault (matched by code).
func (e *FaultError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == ErrRemoteFault.Code
}

// AsFault extracts a FaultError from an error chain.
func AsFault(err error) (*FaultError, bool) {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
