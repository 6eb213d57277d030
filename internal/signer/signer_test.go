package signer_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Well-known development account, never funded on a real network.
const (
	devPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devMnemonic   = "test test test test test test test test test test test junk"
)

var devAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func devKey(t *testing.T) *signer.Key {
	t.Helper()

	key, err := signer.KeyFromHex("0x" + devPrivateKey)
	require.NoError(t, err)
	t.Cleanup(key.Destroy)

	return key
}

func unsignedManualSell(from common.Address) *txbuilder.UnsignedTransaction {
	return &txbuilder.UnsignedTransaction{
		Method:   "manualSell",
		ChainID:  test.TestChainID,
		From:     from,
		To:       test.TestContractAddress,
		Value:    big.NewInt(0),
		Data:     common.FromHex("0x2a1b7d3e"),
		Nonce:    4,
		GasLimit: 300000,
		GasPrice: big.NewInt(22_000_000_000),
	}
}

func TestKeyFromHexDerivesAddress(t *testing.T) {
	key := devKey(t)
	assert.Equal(t, devAddress, key.Address())

	withoutPrefix, err := signer.KeyFromHex(devPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, devAddress, withoutPrefix.Address())
}

func TestKeyFromHexRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "0x", "zz", "0x1234", "0x" + devPrivateKey + "00"} {
		_, err := signer.KeyFromHex(input)
		assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err), input)
		if err != nil {
			assert.NotContains(t, err.Error(), devPrivateKey)
		}
	}
}

func TestKeyNeverRendersSecret(t *testing.T) {
	key := devKey(t)

	assert.NotContains(t, key.String(), devPrivateKey)
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v %s", key, key, key, key), devPrivateKey[:16])

	raw, err := json.Marshal(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"`+devAddress.Hex()+`"}`, string(raw))

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("key", key).Msg("loaded")
	assert.Contains(t, buf.String(), devAddress.Hex())
	assert.NotContains(t, buf.String(), devPrivateKey[:16])
}

func TestKeyFromMnemonic(t *testing.T) {
	key, err := signer.KeyFromMnemonic(devMnemonic, "", config.DefaultDerivationPath)
	require.NoError(t, err)
	defer key.Destroy()
	assert.Equal(t, devAddress, key.Address())

	second, err := signer.KeyFromMnemonic("  "+devMnemonic+"\n", "", "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	defer second.Destroy()
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), second.Address())

	_, err = signer.KeyFromMnemonic(devMnemonic, "", "44'/60'")
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.KeyFromMnemonic(devMnemonic, "", "m/44'/sixty'")
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.KeyFromMnemonic("   ", "", config.DefaultDerivationPath)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.KeyFromMnemonic(strings.Replace(devMnemonic, "junk", "kinetix", 1), "", config.DefaultDerivationPath)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))
}

func writeKeystore(t *testing.T, password string) string {
	t.Helper()

	priv, err := crypto.HexToECDSA(devPrivateKey)
	require.NoError(t, err)

	keyJSON, err := keystore.EncryptKey(&keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}, password, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keystore.json")
	require.NoError(t, os.WriteFile(path, keyJSON, 0o600))

	return path
}

func TestKeyFromKeystore(t *testing.T) {
	path := writeKeystore(t, "correct horse")
	keyJSON, err := os.ReadFile(path)
	require.NoError(t, err)

	key, err := signer.KeyFromKeystore(keyJSON, "correct horse")
	require.NoError(t, err)
	defer key.Destroy()
	assert.Equal(t, devAddress, key.Address())

	_, err = signer.KeyFromKeystore(keyJSON, "wrong horse")
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))
}

func TestLoadKeySources(t *testing.T) {
	keystorePath := writeKeystore(t, "pw")
	var prompts []string
	reader := func(answers map[string]string) signer.PasswordReader {
		return func(prompt string) ([]byte, error) {
			prompts = append(prompts, prompt)
			return []byte(answers[prompt]), nil
		}
	}

	key, err := signer.LoadKey(config.Signer{KeySource: config.KeySourceEnv, PrivateKey: devPrivateKey}, nil)
	require.NoError(t, err)
	assert.Equal(t, devAddress, key.Address())

	key, err = signer.LoadKey(config.Signer{KeySource: config.KeySourcePrompt},
		reader(map[string]string{"Private key (hex): ": devPrivateKey}))
	require.NoError(t, err)
	assert.Equal(t, devAddress, key.Address())

	key, err = signer.LoadKey(config.Signer{KeySource: config.KeySourceKeystore, KeystorePath: keystorePath},
		reader(map[string]string{"Keystore password: ": "pw"}))
	require.NoError(t, err)
	assert.Equal(t, devAddress, key.Address())

	key, err = signer.LoadKey(config.Signer{KeySource: config.KeySourceKeystore, KeystorePath: keystorePath, KeystorePassword: "pw"}, nil)
	require.NoError(t, err)
	assert.Equal(t, devAddress, key.Address())

	key, err = signer.LoadKey(config.Signer{KeySource: config.KeySourceMnemonic, Mnemonic: devMnemonic}, nil)
	require.NoError(t, err)
	assert.Equal(t, devAddress, key.Address())

	key, err = signer.LoadKey(config.Signer{KeySource: config.KeySourceNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, key)

	_, err = signer.LoadKey(config.Signer{KeySource: config.KeySourceEnv}, nil)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.LoadKey(config.Signer{KeySource: "ledger"}, nil)
	assert.Equal(t, chainerr.InvalidInput, chainerr.KindOf(err))

	assert.Equal(t, []string{"Private key (hex): ", "Keystore password: "}, prompts)
}

func TestSignAndSendSubmitsOnce(t *testing.T) {
	key := devKey(t)
	tx := unsignedManualSell(devAddress)

	conn := test.NewFakeConnection()
	var submitted []byte
	conn.On("SubmitRaw", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { submitted = args.Get(1).([]byte) }). //nolint:forcetypeassert
		Return(common.HexToHash("0x01"), nil).Once()

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, common.Address{})
	require.NoError(t, err)

	handle, err := s.SignAndSend(t.Context(), tx, key)
	require.NoError(t, err)
	assert.Equal(t, submitted, handle.RawBytes)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(handle.RawBytes))
	assert.Equal(t, handle.Hash, decoded.Hash())
	assert.Equal(t, uint8(types.LegacyTxType), decoded.Type())
	assert.Equal(t, uint64(4), decoded.Nonce())
	assert.Equal(t, test.TestContractAddress, *decoded.To())
	assert.Equal(t, test.TestChainID.Int64(), decoded.ChainId().Int64())

	sender, err := types.Sender(types.LatestSignerForChainID(test.TestChainID), &decoded)
	require.NoError(t, err)
	assert.Equal(t, devAddress, sender)

	conn.AssertExpectations(t)
	conn.AssertNotCalled(t, "GetNonce", mock.Anything, mock.Anything)
}

func TestSignAndSendKeepsLocalHashWhenNodeDiffers(t *testing.T) {
	key := devKey(t)
	nodeHash := common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")

	conn := test.NewFakeConnection()
	conn.On("SubmitRaw", mock.Anything, mock.Anything).Return(nodeHash, nil).Once()

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, common.Address{})
	require.NoError(t, err)

	handle, err := s.SignAndSend(t.Context(), unsignedManualSell(devAddress), key)
	require.NoError(t, err)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(handle.RawBytes))
	assert.Equal(t, decoded.Hash(), handle.Hash)
	assert.NotEqual(t, nodeHash, handle.Hash)

	assert.Contains(t, buf.String(), "Node returned a different transaction hash")
	assert.Contains(t, buf.String(), nodeHash.Hex())
	assert.Contains(t, buf.String(), handle.Hash.Hex())

	conn.AssertExpectations(t)
}

func TestSubmitPropagatesNonceTooLowWithoutRebuild(t *testing.T) {
	key := devKey(t)
	conn := test.NewFakeConnection()
	conn.On("SubmitRaw", mock.Anything, mock.Anything).
		Return(common.Hash{}, chainerr.New(chainerr.NonceTooLow, "nonce too low")).Once()

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, devAddress)
	require.NoError(t, err)

	outcome, err := s.Submit(t.Context(), unsignedManualSell(devAddress))
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, chainerr.NonceTooLow, chainerr.KindOf(err))
	assert.True(t, chainerr.KindOf(err).RequiresRebuild())

	conn.AssertNumberOfCalls(t, "SubmitRaw", 1)
	conn.AssertNotCalled(t, "GetNonce", mock.Anything, mock.Anything)
	conn.AssertNotCalled(t, "GetGasPrice", mock.Anything)
}

func TestSubmitReportsStages(t *testing.T) {
	key := devKey(t)
	conn := test.NewFakeConnection()
	conn.On("SubmitRaw", mock.Anything, mock.Anything).Return(common.HexToHash("0x02"), nil)

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, common.Address{})
	require.NoError(t, err)
	assert.Equal(t, devAddress, s.Sender())

	tx := unsignedManualSell(devAddress)
	outcome, err := s.Submit(t.Context(), tx)
	require.NoError(t, err)
	assert.Equal(t, signer.ModeSign, outcome.Mode)
	assert.Equal(t, signer.StageSubmitted, outcome.Stage)
	assert.Same(t, tx, outcome.Unsigned)
	require.NotNil(t, outcome.Handle)
}

func TestDisplayOnlyPassesThrough(t *testing.T) {
	conn := test.NewFakeConnection()

	s, err := signer.NewSubmitter(signer.ModeDisplayOnly, conn, nil, devAddress)
	require.NoError(t, err)

	tx := unsignedManualSell(devAddress)
	outcome, err := s.Submit(t.Context(), tx)
	require.NoError(t, err)

	assert.Equal(t, signer.ModeDisplayOnly, outcome.Mode)
	assert.Equal(t, signer.StageBuilt, outcome.Stage)
	assert.Same(t, tx, outcome.Unsigned)
	assert.Nil(t, outcome.Handle)
	conn.AssertNotCalled(t, "SubmitRaw", mock.Anything, mock.Anything)

	raw, err := json.Marshal(outcome)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mode":"display"`)
	assert.Contains(t, string(raw), `"stage":"built"`)
}

func TestSigningFailures(t *testing.T) {
	conn := test.NewFakeConnection()
	key := devKey(t)

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, devAddress)
	require.NoError(t, err)

	other := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	_, err = s.SignAndSend(t.Context(), unsignedManualSell(other), key)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = s.SignAndSend(t.Context(), unsignedManualSell(devAddress), nil)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	destroyed, err := signer.KeyFromHex(devPrivateKey)
	require.NoError(t, err)
	destroyed.Destroy()
	destroyed.Destroy()
	assert.True(t, destroyed.Destroyed())

	_, err = s.SignAndSend(t.Context(), unsignedManualSell(devAddress), destroyed)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	conn.AssertNotCalled(t, "SubmitRaw", mock.Anything, mock.Anything)
}

func TestNewSubmitterValidation(t *testing.T) {
	conn := test.NewFakeConnection()
	key := devKey(t)

	_, err := signer.NewSubmitter(signer.ModeSign, conn, nil, devAddress)
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.NewSubmitter(signer.ModeDisplayOnly, conn, nil, common.Address{})
	assert.Equal(t, chainerr.InvalidInput, chainerr.KindOf(err))

	_, err = signer.NewSubmitter(signer.ModeSign, conn, key, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"))
	assert.Equal(t, chainerr.SigningFailed, chainerr.KindOf(err))

	_, err = signer.NewSubmitter(signer.ModeSign, nil, key, devAddress)
	require.Error(t, err)

	s, err := signer.NewSubmitter(signer.ModeSign, conn, key, devAddress)
	require.NoError(t, err)
	s.Close()
	assert.True(t, key.Destroyed())
}

func TestParseMode(t *testing.T) {
	mode, ok := signer.ParseMode("display")
	assert.True(t, ok)
	assert.Equal(t, signer.ModeDisplayOnly, mode)

	mode, ok = signer.ParseMode("sign")
	assert.True(t, ok)
	assert.Equal(t, signer.ModeSign, mode)

	_, ok = signer.ParseMode("metamask")
	assert.False(t, ok)
}
