// Package txbuilder turns a contract method, its arguments and a sender into an
// UnsignedTransaction with a fresh nonce and a gas policy applied.
package txbuilder

import (
	"context"
	"math/big"

	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/contract"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const percent = 100

// Builder performs no network writes. It is safe for concurrent use; callers that need
// per-sender ordering hold a SenderLocks lock around Build and submission.
type Builder struct {
	conn    chain.Connection
	binding *contract.Binding
	config  Config
}

// NewBuilder creates a Builder. Zero config fields fall back to the package defaults.
func NewBuilder(conn chain.Connection, binding *contract.Binding, config Config) (*Builder, error) {
	if conn == nil {
		return nil, errors.New("chain connection is required")
	}
	if binding == nil {
		return nil, errors.New("contract binding is required")
	}

	if config.DefaultGasLimit == 0 {
		config.DefaultGasLimit = DefaultGasLimit
	}
	if config.HeadroomPercent == 0 {
		config.HeadroomPercent = DefaultHeadroomPercent
	}
	if config.HeadroomPercent < percent {
		return nil, errors.Errorf("gas headroom must be at least 100%%, got %d%%", config.HeadroomPercent)
	}

	return &Builder{conn: conn, binding: binding, config: config}, nil
}

// Build validates req and assembles an unsigned legacy transaction. The nonce is read from
// the node on every call.
func (b *Builder) Build(ctx context.Context, req Request) (*UnsignedTransaction, error) {
	descriptor, err := b.binding.Describe(req.Method)
	if err != nil {
		return nil, err
	}
	if descriptor.Mutability != contract.Write {
		return nil, chainerr.Newf(chainerr.WrongMutability, "method %s is read-only and cannot be sent as a transaction", req.Method)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, chainerr.New(chainerr.InvalidInput, "transaction value must not be negative")
	}
	if value.Sign() > 0 && !descriptor.Payable {
		return nil, chainerr.Newf(chainerr.NonPayableValueRejected, "method %s is not payable and cannot receive ether", req.Method)
	}

	from, err := units.ParseAddress(req.From)
	if err != nil {
		return nil, err
	}

	data, err := b.binding.Encode(req.Method, req.Args)
	if err != nil {
		return nil, err
	}

	chainID, err := b.conn.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := b.conn.GetNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	gasPrice, err := b.gasPrice(ctx, req.Gas)
	if err != nil {
		return nil, err
	}

	to := b.binding.Address()
	gasLimit, err := b.gasLimit(ctx, req.Gas, chain.CallMsg{From: from, To: to, Value: value, Data: data})
	if err != nil {
		return nil, err
	}

	tx := &UnsignedTransaction{
		Method:   req.Method,
		ChainID:  new(big.Int).Set(chainID),
		From:     from,
		To:       to,
		Value:    new(big.Int).Set(value),
		Data:     data,
		Nonce:    nonce,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
	}

	log.Debug().
		Str("method", tx.Method).
		Str("from", tx.From.Hex()).
		Uint64("nonce", tx.Nonce).
		Uint64("gas_limit", tx.GasLimit).
		Str("gas_price", tx.GasPrice.String()).
		Str("value", tx.Value.String()).
		Msg("Transaction built")

	return tx, nil
}

func (b *Builder) gasPrice(ctx context.Context, policy GasPolicy) (*big.Int, error) {
	if policy.GasPrice != nil {
		if policy.GasPrice.Sign() <= 0 {
			return nil, chainerr.New(chainerr.InvalidInput, "gas price must be positive")
		}
		return new(big.Int).Set(policy.GasPrice), nil
	}
	if b.config.GasPrice != nil {
		return new(big.Int).Set(b.config.GasPrice), nil
	}

	live, err := b.conn.GetGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	return withHeadroom(live, b.config.HeadroomPercent), nil
}

func (b *Builder) gasLimit(ctx context.Context, policy GasPolicy, msg chain.CallMsg) (uint64, error) {
	if policy.GasLimit > 0 {
		return policy.GasLimit, nil
	}
	if !policy.EstimateLimit && !b.config.EstimateLimit {
		return b.config.DefaultGasLimit, nil
	}

	estimated, err := b.conn.EstimateGas(ctx, msg)
	if err != nil {
		return 0, err
	}

	return withHeadroom(new(big.Int).SetUint64(estimated), b.config.HeadroomPercent).Uint64(), nil
}

func withHeadroom(v *big.Int, headroomPercent uint64) *big.Int {
	out := new(big.Int).Mul(v, new(big.Int).SetUint64(headroomPercent))
	return out.Quo(out, big.NewInt(percent))
}
