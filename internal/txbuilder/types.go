package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultGasLimit is used when neither an explicit limit nor estimation is requested.
	DefaultGasLimit uint64 = 300000
	// DefaultHeadroomPercent is applied to live gas prices and estimated limits.
	DefaultHeadroomPercent uint64 = 110
)

// Request describes one state-changing call to build.
type Request struct {
	Method string
	Args   []interface{}
	// From is the sender address as entered by the user.
	From  string
	Value *big.Int
	Gas   GasPolicy
}

// GasPolicy overrides the builder defaults. Zero values mean "use the default".
type GasPolicy struct {
	GasLimit      uint64
	GasPrice      *big.Int
	EstimateLimit bool
}

// UnsignedTransaction is created fresh for every build and never reused after a failed
// submission.
type UnsignedTransaction struct {
	Method   string         `json:"method"`
	ChainID  *big.Int       `json:"chainId"`
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Value    *big.Int       `json:"value"`
	Data     []byte         `json:"data"`
	Nonce    uint64         `json:"nonce"`
	GasLimit uint64         `json:"gasLimit"`
	GasPrice *big.Int       `json:"gasPrice"`
}

// Config tunes the gas policy defaults.
type Config struct {
	DefaultGasLimit uint64
	HeadroomPercent uint64
	// GasPrice pins the gas price instead of querying the node. Nil means live.
	GasPrice *big.Int
	// EstimateLimit turns on gas estimation for every request.
	EstimateLimit bool
}
