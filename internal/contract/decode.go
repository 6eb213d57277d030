package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/kinetix/kx-console/internal/chainerr"
)

// DecodeUint extracts a single uint256 output.
func DecodeUint(values []interface{}) (*big.Int, error) {
	if len(values) != 1 {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected 1 output, got %d", len(values))
	}

	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected uint256 output, got %T", values[0])
	}

	return v, nil
}

// DecodePositions converts the getMyPositions tuple array, preserving contract order.
// Position IDs are the array indexes, which is what withdraw expects.
func DecodePositions(values []interface{}) (positions []Position, err error) {
	if len(values) != 1 {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected 1 output, got %d", len(values))
	}

	// abi.ConvertType panics when the shapes are incompatible.
	defer func() {
		if r := recover(); r != nil {
			positions = nil
			err = chainerr.New(chainerr.DecodeFailed, fmt.Sprintf("unexpected position layout: %v", r))
		}
	}()

	tuples := *abi.ConvertType(values[0], new([]positionTuple)).(*[]positionTuple)

	positions = make([]Position, 0, len(tuples))
	for i, tuple := range tuples {
		positions = append(positions, Position{
			ID:         i,
			EntryPrice: tuple.EntryPrice,
			AmountWei:  tuple.Amount,
			Sold:       tuple.Sold,
		})
	}

	return positions, nil
}

// DecodeUpkeep converts the (bool, bytes) result of checkUpkeep.
func DecodeUpkeep(values []interface{}) (*UpkeepCheck, error) {
	if len(values) != 2 {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected 2 outputs, got %d", len(values))
	}

	needed, ok := values[0].(bool)
	if !ok {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected bool upkeepNeeded, got %T", values[0])
	}

	performData, ok := values[1].([]byte)
	if !ok {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "expected bytes performData, got %T", values[1])
	}

	return &UpkeepCheck{UpkeepNeeded: needed, PerformData: performData}, nil
}
