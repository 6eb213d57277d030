package kx

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGasPolicyFromFlags(t *testing.T) {
	cmd := newBuy()
	require.NoError(t, cmd.ParseFlags([]string{"--gas-limit", "150000", "--gas-price-gwei", "1.5", "--estimate-gas"}))

	policy, err := gasPolicyFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, uint64(150000), policy.GasLimit)
	assert.Equal(t, "1500000000", policy.GasPrice.String())
	assert.True(t, policy.EstimateLimit)

	cmd = newSell()
	require.NoError(t, cmd.ParseFlags(nil))
	policy, err = gasPolicyFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, txbuilder.GasPolicy{}, policy)

	cmd = newSell()
	require.NoError(t, cmd.ParseFlags([]string{"--gas-price-gwei", "abc"}))
	_, err = gasPolicyFromFlags(cmd)
	assert.Equal(t, chainerr.InvalidInput, chainerr.KindOf(err))
}

func TestPrintOutcome(t *testing.T) {
	outcome := &signer.Outcome{
		Mode:  signer.ModeDisplayOnly,
		Stage: signer.StageBuilt,
		Unsigned: &txbuilder.UnsignedTransaction{
			Method:   "buy",
			ChainID:  big.NewInt(11155111),
			From:     common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			To:       common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
			Value:    big.NewInt(50_000_000_000_000_000),
			Data:     []byte{0xa6, 0xf2, 0xae, 0x3a},
			Nonce:    4,
			GasLimit: 300000,
			GasPrice: big.NewInt(22_000_000_000),
		},
	}

	var out bytes.Buffer
	printOutcome(&out, outcome)

	assert.Contains(t, out.String(), "buy: built")
	assert.Contains(t, out.String(), "value:     0.05 ETH")
	assert.Contains(t, out.String(), "gas price: 22 gwei")
	assert.Contains(t, out.String(), "data:      0xa6f2ae3a")
	assert.NotContains(t, out.String(), "tx hash")
}
