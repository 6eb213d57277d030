// Package chainerr defines the closed set of failure kinds reported by the contract façade.
// Callers pattern-match on Kind instead of inspecting error text.
package chainerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a façade failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors that did not originate in the façade.
	Unknown Kind = iota
	// InvalidInput is rejected before any network call.
	InvalidInput
	NodeUnreachable
	CallReverted
	NonceTooLow
	Underpriced
	// SubmissionRejected is any other node-side rejection of a raw transaction.
	SubmissionRejected
	SigningFailed
	UnknownMethod
	ArgumentMismatch
	WrongMutability
	NonPayableValueRejected
	DecodeFailed
)

var kindNames = map[Kind]string{
	Unknown:                 "Unknown",
	InvalidInput:            "InvalidInput",
	NodeUnreachable:         "NodeUnreachable",
	CallReverted:            "CallReverted",
	NonceTooLow:             "NonceTooLow",
	Underpriced:             "Underpriced",
	SubmissionRejected:      "SubmissionRejected",
	SigningFailed:           "SigningFailed",
	UnknownMethod:           "UnknownMethod",
	ArgumentMismatch:        "ArgumentMismatch",
	WrongMutability:         "WrongMutability",
	NonPayableValueRejected: "NonPayableValueRejected",
	DecodeFailed:            "DecodeFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON payloads and logs.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RequiresRebuild reports whether the only valid recovery is building a new transaction
// with a fresh nonce and gas price. The same built transaction is never resubmitted.
func (k Kind) RequiresRebuild() bool {
	return k == NonceTooLow || k == Underpriced
}

// Error is a classified failure. Message is safe to show to a user; Reason carries the
// decoded revert reason for CallReverted when the node supplied one.
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Reason != "" {
		msg += " (reason: " + e.Reason + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// Cause satisfies github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.cause }

// New creates a classified error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause. A nil cause yields a plain classified error.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Reverted builds a CallReverted error carrying the contract's revert reason.
func Reverted(cause error, reason string) *Error {
	return &Error{Kind: CallReverted, Message: "execution reverted", Reason: reason, cause: cause}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As returns the classified error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
