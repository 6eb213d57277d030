package common_test

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetMetrics(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.FakeConnectionOf(t, s).On("GetGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil)

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		body := res.Body.String()
		assert.Contains(t, body, s.Config.Metrics.Namespace+"_build_info")
		assert.Contains(t, body, s.Config.Metrics.Namespace+"_http_requests_total")
	})
}

func TestGetMetricsDisabled(t *testing.T) {
	cfg := test.DefaultTestConfig()
	cfg.Metrics.Enabled = false

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusNotFound, res.Result().StatusCode)
	})
}
