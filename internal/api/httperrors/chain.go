package httperrors

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/types"
)

var kindStatus = map[chainerr.Kind]int{
	chainerr.InvalidInput:            http.StatusBadRequest,
	chainerr.ArgumentMismatch:        http.StatusBadRequest,
	chainerr.NonPayableValueRejected: http.StatusBadRequest,
	chainerr.WrongMutability:         http.StatusBadRequest,
	chainerr.UnknownMethod:           http.StatusNotFound,
	chainerr.NonceTooLow:             http.StatusConflict,
	chainerr.Underpriced:             http.StatusConflict,
	chainerr.CallReverted:            http.StatusUnprocessableEntity,
	chainerr.SubmissionRejected:      http.StatusUnprocessableEntity,
	chainerr.SigningFailed:           http.StatusInternalServerError,
	chainerr.DecodeFailed:            http.StatusBadGateway,
	chainerr.NodeUnreachable:         http.StatusServiceUnavailable,
}

var kindTitle = map[chainerr.Kind]string{
	chainerr.InvalidInput:            "Invalid input.",
	chainerr.ArgumentMismatch:        "Arguments do not match the contract method.",
	chainerr.NonPayableValueRejected: "The contract method does not accept ETH.",
	chainerr.WrongMutability:         "The contract method cannot be used this way.",
	chainerr.UnknownMethod:           "Unknown contract method.",
	chainerr.NonceTooLow:             "The transaction nonce is already used. Retry the action to build a new transaction.",
	chainerr.Underpriced:             "The transaction gas price is too low. Retry the action to build a new transaction.",
	chainerr.CallReverted:            "The contract reverted the call.",
	chainerr.SubmissionRejected:      "The node rejected the transaction.",
	chainerr.SigningFailed:           "The transaction could not be signed.",
	chainerr.DecodeFailed:            "The contract returned data that could not be decoded.",
	chainerr.NodeUnreachable:         "The blockchain node is unreachable.",
}

// FromChainError maps a classified façade error onto an HTTP error. The second return value is
// false if err carries no kind.
func FromChainError(err error) (*HTTPError, bool) {
	ce, ok := chainerr.As(err)
	if !ok {
		return nil, false
	}

	code, ok := kindStatus[ce.Kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	title, ok := kindTitle[ce.Kind]
	if !ok {
		title = http.StatusText(code)
	}

	httpErr := NewHTTPError(code, types.PublicHTTPErrorTypeCHAIN, title)
	httpErr.Kind = ce.Kind.String()
	httpErr.Reason = ce.Reason
	httpErr.RebuildRequired = ce.Kind.RequiresRebuild()
	httpErr.Internal = err

	// node-side detail is safe to show, signing detail is not
	if ce.Kind != chainerr.SigningFailed {
		httpErr.Detail = ce.Message
	}

	return httpErr, true
}
