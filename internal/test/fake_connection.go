package test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/stretchr/testify/mock"
)

// TestChainID is reported by FakeConnection.ChainID unless overridden with On("ChainID").
var TestChainID = big.NewInt(11155111)

// FakeConnection is a testify mock of chain.Connection.
type FakeConnection struct {
	mock.Mock
}

var _ chain.Connection = (*FakeConnection)(nil)

// NewFakeConnection returns a FakeConnection that already answers ChainID.
func NewFakeConnection() *FakeConnection {
	f := &FakeConnection{}
	f.On("ChainID", mock.Anything).Return(TestChainID, nil).Maybe()
	return f
}

func (f *FakeConnection) ReadonlyCall(ctx context.Context, from *common.Address, to common.Address, data []byte) ([]byte, error) {
	args := f.Called(ctx, from, to, data)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

// GetNonce accepts either a uint64 or a func(context.Context, common.Address) uint64 as return value.
func (f *FakeConnection) GetNonce(ctx context.Context, address common.Address) (uint64, error) {
	args := f.Called(ctx, address)
	if fn, ok := args.Get(0).(func(context.Context, common.Address) uint64); ok {
		return fn(ctx, address), args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

func (f *FakeConnection) GetGasPrice(ctx context.Context) (*big.Int, error) {
	args := f.Called(ctx)
	price, _ := args.Get(0).(*big.Int)
	return price, args.Error(1)
}

func (f *FakeConnection) EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error) {
	args := f.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

func (f *FakeConnection) SubmitRaw(ctx context.Context, raw []byte) (common.Hash, error) {
	args := f.Called(ctx, raw)
	hash, _ := args.Get(0).(common.Hash)
	return hash, args.Error(1)
}

func (f *FakeConnection) ChainID(ctx context.Context) (*big.Int, error) {
	args := f.Called(ctx)
	id, _ := args.Get(0).(*big.Int)
	return id, args.Error(1)
}
