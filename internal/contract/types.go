package contract

import (
	"math/big"
	"slices"
)

// Mutability tells whether a method can be served by eth_call.
type Mutability int

const (
	// Read methods are view or pure and are executed with eth_call.
	Read Mutability = iota
	// Write methods change state and must be sent as signed transactions.
	Write
)

func (m Mutability) String() string {
	if m == Read {
		return "read"
	}
	return "write"
}

// MarshalText renders the mutability by name.
func (m Mutability) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MethodDescriptor is derived once from the ABI and never mutated afterwards.
type MethodDescriptor struct {
	Name       string     `json:"name"`
	Inputs     []string   `json:"inputs"`
	Outputs    []string   `json:"outputs"`
	Mutability Mutability `json:"mutability"`
	Payable    bool       `json:"payable"`
}

func (d MethodDescriptor) clone() MethodDescriptor {
	d.Inputs = slices.Clone(d.Inputs)
	d.Outputs = slices.Clone(d.Outputs)
	return d
}

// Position mirrors one entry of getMyPositions. It is stale as soon as it is read.
type Position struct {
	ID         int      `json:"id"`
	EntryPrice *big.Int `json:"entryPrice"`
	AmountWei  *big.Int `json:"amountWei"`
	Sold       bool     `json:"sold"`
}

// UpkeepCheck is the decoded result of checkUpkeep.
type UpkeepCheck struct {
	UpkeepNeeded bool   `json:"upkeepNeeded"`
	PerformData  []byte `json:"performData"`
}

// positionTuple matches the ABI layout of KinetixKX.Position for abi.ConvertType.
type positionTuple struct {
	EntryPrice *big.Int `json:"entryPrice"`
	Amount     *big.Int `json:"amount"`
	Sold       bool     `json:"sold"`
}
