package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Connection is the only component that talks to the JSON-RPC node. Implementations
// report failures verbatim as chainerr kinds and never retry.
type Connection interface {
	// ReadonlyCall executes eth_call against the latest block. from may be nil.
	ReadonlyCall(ctx context.Context, from *common.Address, to common.Address, data []byte) ([]byte, error)

	// GetNonce returns the pending transaction count of address.
	GetNonce(ctx context.Context, address common.Address) (uint64, error)

	// GetGasPrice returns the node's current legacy gas price suggestion in wei.
	GetGasPrice(ctx context.Context) (*big.Int, error)

	// EstimateGas simulates a call and returns the gas it would use.
	EstimateGas(ctx context.Context, msg CallMsg) (uint64, error)

	// SubmitRaw broadcasts an RLP-encoded signed transaction via eth_sendRawTransaction.
	SubmitRaw(ctx context.Context, raw []byte) (common.Hash, error)

	// ChainID returns the chain id of the node.
	ChainID(ctx context.Context) (*big.Int, error)
}

// CallMsg describes a simulated call used for gas estimation.
type CallMsg struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Observer receives one observation per RPC round trip.
type Observer interface {
	ObserveRPC(method string, outcome string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveRPC(string, string, time.Duration) {}
