package common_test

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetHealthyRequiresSecret(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusUnauthorized, res.Result().StatusCode)

		res = test.PerformRequestWithParams(t, s, "GET", "/-/healthy", nil, nil, map[string]string{"mgmt-secret": "wrong"})
		require.Equal(t, http.StatusUnauthorized, res.Result().StatusCode)
	})
}

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil)
		conn.On("ReadonlyCall", mock.Anything, mock.Anything, test.TestContractAddress, test.CallTo(t, "getEthPrice")).
			Return(test.PackOutputs(t, "getEthPrice", big.NewInt(250000000000)), nil)

		res := test.PerformRequestWithParams(t, s, "GET", "/-/healthy", nil, nil, map[string]string{"mgmt-secret": s.Config.Management.Secret})
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "Alive.")
		assert.Contains(t, res.Body.String(), test.TestSenderAddress.Hex())
	})
}

func TestGetHealthyContractBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		conn := test.FakeConnectionOf(t, s)
		conn.On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil)
		conn.On("ReadonlyCall", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, chainerr.Reverted(nil, "Chainlink: stale price"))

		res := test.PerformRequestWithParams(t, s, "GET", "/-/healthy", nil, nil, map[string]string{"mgmt-secret": s.Config.Management.Secret})
		require.Equal(t, 521, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "Probe failed: contract")
		assert.NotContains(t, res.Body.String(), "Alive.")
	})
}
