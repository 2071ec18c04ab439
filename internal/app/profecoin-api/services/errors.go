package services

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
)

// ErrorKind classifies why an operation failed. The HTTP body does not carry
// it; logs, metrics and the journal do.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindChainCall    ErrorKind = "chain_call"
	KindConnectivity ErrorKind = "connectivity"
	KindTimeout      ErrorKind = "timeout"
)

// CallError is returned by every service operation that fails.
type CallError struct {
	Kind ErrorKind
	// Field names the offending request field for validation errors.
	Field string
	// Message is safe to show to API clients.
	Message string
	Err     error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func newValidationError(field, message string) *CallError {
	return &CallError{Kind: KindValidation, Field: field, Message: message}
}

// newCallError wraps a collaborator failure, deriving the kind from err.
func newCallError(message string, err error) *CallError {
	return &CallError{Kind: Classify(err), Message: message, Err: err}
}

// KindOf returns the kind of err, or KindChainCall when err is not a CallError.
func KindOf(err error) ErrorKind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	return Classify(err)
}

// Classify maps an error from the ledger client to a kind.
func Classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return KindConnectivity
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnectivity
	}

	return KindChainCall
}
