package kx_test

import (
	"math/big"
	"net/http"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func displayOnlyConfig() config.Server {
	cfg := test.DefaultTestConfig()
	cfg.Signer.Mode = config.SignerModeDisplay
	cfg.Signer.KeySource = config.KeySourceNone
	cfg.Signer.PrivateKey = ""
	cfg.Signer.SenderAddress = test.TestSenderAddress.Hex()
	return cfg
}

func TestPostBuySignsAndSubmits(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(7), nil).Once()
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(20_000_000_000), nil).Once()

		var raw []byte
		hash := common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")
		conn.On("SubmitRaw", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { raw = args.Get(1).([]byte) }). //nolint:forcetypeassert
			Return(hash, nil).Once()

		payload := test.GenericPayload{"ethAmount": "0.05"}
		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.TransactionResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Equal(t, "sign", *response.Mode)
		assert.Equal(t, "submitted", *response.Stage)
		assert.Equal(t, hexutil.Encode(raw), response.RawTransaction)

		tx := response.Transaction
		assert.Equal(t, "buy", *tx.Method)
		assert.Equal(t, test.TestChainID.String(), *tx.ChainID)
		assert.Equal(t, test.TestSenderAddress.Hex(), *tx.From)
		assert.Equal(t, test.TestContractAddress.Hex(), *tx.To)
		assert.Equal(t, "50000000000000000", *tx.Value)
		assert.Equal(t, int64(7), *tx.Nonce)
		assert.Equal(t, int64(300000), *tx.GasLimit)
		assert.Equal(t, "22000000000", *tx.GasPrice)

		var signed ethtypes.Transaction
		require.NoError(t, signed.UnmarshalBinary(raw))
		assert.Equal(t, signed.Hash().Hex(), response.TxHash)
		sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(test.TestChainID), &signed)
		require.NoError(t, err)
		assert.Equal(t, test.TestSenderAddress, sender)

		conn.AssertExpectations(t)
	})
}

func TestPostBuyInvalidPayload(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", test.GenericPayload{}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var validationErr types.HTTPValidationError
		test.ParseResponseAndValidate(t, res, &validationErr)
		require.Len(t, validationErr.ValidationErrors, 1)
		assert.Equal(t, "ethAmount", swag.StringValue(validationErr.ValidationErrors[0].Key))

		res = test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", test.GenericPayload{"ethAmount": "1e18"}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", test.GenericPayload{
			"ethAmount": "0.01",
			"gas":       test.GenericPayload{"gasLimit": 20000},
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		// below the minimum buy
		res = test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", test.GenericPayload{"ethAmount": "0.0001"}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var publicErr types.PublicHTTPError
		test.ParseResponseAndValidate(t, res, &publicErr)
		assert.Equal(t, "InvalidInput", publicErr.Kind)

		conn.AssertNotCalled(t, "GetNonce", mock.Anything, mock.Anything)
		conn.AssertNotCalled(t, "SubmitRaw", mock.Anything, mock.Anything)
	})
}

func TestPostBuyNonceTooLowRequiresRebuild(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(3), nil).Once()
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil).Once()
		conn.On("SubmitRaw", mock.Anything, mock.Anything).
			Return(common.Hash{}, chainerr.New(chainerr.NonceTooLow, "nonce too low: next nonce 4, tx nonce 3")).Once()

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/buy", test.GenericPayload{"ethAmount": "0.01"}, nil)
		require.Equal(t, http.StatusConflict, res.Result().StatusCode)

		var response types.PublicHTTPError
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, "NonceTooLow", response.Kind)
		assert.True(t, response.RebuildRequired)

		// exactly one submission, never retried
		conn.AssertNumberOfCalls(t, "SubmitRaw", 1)
		conn.AssertNumberOfCalls(t, "GetNonce", 1)
	})
}

func TestPostSellWithGasOverrides(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(0), nil).Once()
		conn.On("SubmitRaw", mock.Anything, mock.Anything).Return(common.HexToHash("0x01"), nil).Once()

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/sell", test.GenericPayload{
			"gas": test.GenericPayload{"gasLimit": 120000, "gasPriceGwei": "2.5"},
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.TransactionResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, "manualSell", *response.Transaction.Method)
		assert.Equal(t, "0", *response.Transaction.Value)
		assert.Equal(t, int64(120000), *response.Transaction.GasLimit)
		assert.Equal(t, "2500000000", *response.Transaction.GasPrice)

		conn.AssertNotCalled(t, "GetGasPrice", mock.Anything)
		conn.AssertNotCalled(t, "EstimateGas", mock.Anything, mock.Anything)
	})
}

func TestPostSellEstimatesGas(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(0), nil).Once()
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil).Once()
		conn.On("EstimateGas", mock.Anything, mock.Anything).
			Return(uint64(0), chainerr.Reverted(nil, "no open positions")).Once()

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/sell", test.GenericPayload{
			"gas": test.GenericPayload{"estimateLimit": true},
		}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, res.Result().StatusCode)

		var response types.PublicHTTPError
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, "CallReverted", response.Kind)
		assert.Equal(t, "no open positions", response.Reason)

		conn.AssertNotCalled(t, "SubmitRaw", mock.Anything, mock.Anything)
	})
}

func TestPostWithdrawDisplayOnly(t *testing.T) {
	test.WithTestServerConfigurable(t, displayOnlyConfig(), func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(9), nil).Once()
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil).Once()

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/withdraw", test.GenericPayload{"positionId": 2}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.TransactionResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Equal(t, "display", *response.Mode)
		assert.Equal(t, "built", *response.Stage)
		assert.Empty(t, response.TxHash)
		assert.Empty(t, response.RawTransaction)

		tx := response.Transaction
		assert.Equal(t, "withdraw", *tx.Method)
		assert.Equal(t, int64(9), *tx.Nonce)

		selector := test.KinetixABI(t).Methods["withdraw"].ID
		expected := append(append([]byte{}, selector...), common.LeftPadBytes([]byte{0x02}, 32)...)
		assert.Equal(t, hexutil.Encode(expected), *tx.Data)

		conn.AssertNotCalled(t, "SubmitRaw", mock.Anything, mock.Anything)
	})
}

func TestPostWithdrawInvalidPositionID(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/withdraw", test.GenericPayload{"positionId": -1}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/kx/withdraw", test.GenericPayload{}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestPostUpkeep(t *testing.T) {
	test.WithTestServerConfigurable(t, displayOnlyConfig(), func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetNonce", mock.Anything, test.TestSenderAddress).Return(uint64(1), nil).Once()
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil).Once()

		res := test.PerformRequest(t, s, "POST", "/api/v1/kx/upkeep", test.GenericPayload{"performData": "0xcafe"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.TransactionResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, "performUpkeep", *response.Transaction.Method)

		data, err := hexutil.Decode(*response.Transaction.Data)
		require.NoError(t, err)
		args, err := test.KinetixABI(t).Methods["performUpkeep"].Inputs.Unpack(data[4:])
		require.NoError(t, err)
		assert.Equal(t, []byte{0xca, 0xfe}, args[0])

		res = test.PerformRequest(t, s, "POST", "/api/v1/kx/upkeep", test.GenericPayload{"performData": "cafe"}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestPostInvalidJSON(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequestWithRawBody(t, s, "POST", "/api/v1/kx/buy", strings.NewReader("{"), nil, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}
