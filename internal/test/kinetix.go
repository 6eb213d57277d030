package test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/kinetix"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/stretchr/testify/require"
)

// Well-known development account, never funded on a real network.
const TestPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var TestSenderAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// NewTestKey returns the development key, destroyed when the test ends.
func NewTestKey(t *testing.T) *signer.Key {
	t.Helper()

	key, err := signer.KeyFromHex(TestPrivateKey)
	require.NoError(t, err)
	t.Cleanup(key.Destroy)

	return key
}

// NewTestKinetixService wires a Kinetix service over conn. ModeSign uses the development key,
// ModeDisplayOnly uses TestSenderAddress without a key.
//
//nolint:ireturn
func NewTestKinetixService(t *testing.T, conn *FakeConnection, mode signer.Mode) kinetix.Service {
	t.Helper()

	binding := NewTestBinding(t, conn)

	builder, err := txbuilder.NewBuilder(conn, binding, txbuilder.Config{})
	require.NoError(t, err)

	var key *signer.Key
	if mode == signer.ModeSign {
		key = NewTestKey(t)
	}

	submitter, err := signer.NewSubmitter(mode, conn, key, TestSenderAddress)
	require.NoError(t, err)

	svc, err := kinetix.NewService(conn, binding, builder, submitter, txbuilder.NewSenderLocks(), units.DefaultOracleDecimals)
	require.NoError(t, err)

	return svc
}
