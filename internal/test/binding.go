package test

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/contracts"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/contract"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestContractAddress is the contract address used by all test bindings.
var TestContractAddress = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

// KinetixABI parses the embedded contract ABI.
func KinetixABI(t *testing.T) abi.ABI {
	t.Helper()

	parsed, err := contract.ParseABI(contracts.KinetixABI)
	require.NoError(t, err)

	return parsed
}

// NewTestBinding binds the embedded ABI at TestContractAddress to conn.
func NewTestBinding(t *testing.T, conn chain.Connection) *contract.Binding {
	t.Helper()

	b, err := contract.NewBinding(TestContractAddress, KinetixABI(t), conn)
	require.NoError(t, err)

	return b
}

// PackOutputs ABI-encodes the return values of method as the node would.
func PackOutputs(t *testing.T, method string, values ...interface{}) []byte {
	t.Helper()

	parsed := KinetixABI(t)
	m, ok := parsed.Methods[method]
	require.True(t, ok, "unknown method %s", method)

	out, err := m.Outputs.Pack(values...)
	require.NoError(t, err)

	return out
}

// CallTo matches eth_call data by the selector of method.
func CallTo(t *testing.T, method string) interface{} {
	t.Helper()

	selector := KinetixABI(t).Methods[method].ID
	return mock.MatchedBy(func(data []byte) bool {
		return len(data) >= 4 && bytes.Equal(data[:4], selector)
	})
}
