package chain

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/pkg/errors"
)

// Node error texts as produced by geth-compatible transaction pools.
const (
	msgNonceTooLow      = "nonce too low"
	msgUnderpriced      = "underpriced"
	msgFeeBelowBaseFee  = "max fee per gas less than block base fee"
	msgExecutionReverts = "execution reverted"

	// revertErrorCode is the JSON-RPC code geth uses for eth_call / eth_estimateGas reverts.
	revertErrorCode = 3
)

// classifyCallError maps an eth_call or eth_estimateGas failure to a chainerr kind.
func classifyCallError(err error, what string) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return unreachable(err, what)
	}

	if rpcErr.ErrorCode() == revertErrorCode || strings.Contains(strings.ToLower(rpcErr.Error()), msgExecutionReverts) {
		return chainerr.Reverted(err, revertReason(err))
	}

	return chainerr.Wrap(chainerr.NodeUnreachable, err, what+" failed on node")
}

// classifySubmitError maps an eth_sendRawTransaction failure to a chainerr kind.
func classifySubmitError(err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return unreachable(err, "eth_sendRawTransaction")
	}

	msg := strings.ToLower(rpcErr.Error())
	switch {
	case strings.Contains(msg, msgNonceTooLow):
		return chainerr.Wrap(chainerr.NonceTooLow, err, "transaction nonce is already used")
	case strings.Contains(msg, msgUnderpriced), strings.Contains(msg, msgFeeBelowBaseFee):
		return chainerr.Wrap(chainerr.Underpriced, err, "transaction gas price is too low")
	default:
		return chainerr.Wrap(chainerr.SubmissionRejected, err, "node rejected transaction")
	}
}

// classifyQueryError is used for plain queries (nonce, gas price, chain id) where any
// node-side error is as fatal to the action as a transport failure.
func classifyQueryError(err error, what string) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return chainerr.Wrap(chainerr.NodeUnreachable, err, what+" failed on node")
	}
	return unreachable(err, what)
}

func unreachable(err error, what string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return chainerr.Wrap(chainerr.NodeUnreachable, err, what+" timed out")
	}
	return chainerr.Wrap(chainerr.NodeUnreachable, err, what+" could not reach node")
}

// revertReason decodes the Error(string) payload attached to a revert, if any.
func revertReason(err error) string {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return ""
	}

	hexData, ok := dataErr.ErrorData().(string)
	if !ok || hexData == "" {
		return ""
	}

	reason, unpackErr := abi.UnpackRevert(common.FromHex(hexData))
	if unpackErr != nil {
		return ""
	}
	return reason
}

// outcomeOf labels an RPC result for metrics.
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return chainerr.KindOf(err).String()
}
