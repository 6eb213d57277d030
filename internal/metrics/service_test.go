package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRPC(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Metrics.Namespace = "kx"

	svc, err := metrics.New(cfg)
	require.NoError(t, err)

	svc.ObserveRPC("eth_call", "ok", 20*time.Millisecond)
	svc.ObserveRPC("eth_call", "ok", 30*time.Millisecond)
	svc.ObserveRPC("eth_sendRawTransaction", "NonceTooLow", time.Millisecond)

	count, err := testutil.GatherAndCount(svc.Registry, "kx_rpc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `kx_rpc_requests_total{method="eth_call",outcome="ok"} 2`)
	assert.Contains(t, body, `kx_rpc_requests_total{method="eth_sendRawTransaction",outcome="NonceTooLow"} 1`)
	assert.Contains(t, body, "kx_rpc_request_duration_seconds_bucket")
	assert.Contains(t, body, "kx_build_info")
}

func TestNewServicesAreIndependent(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	_, err := metrics.New(cfg)
	require.NoError(t, err)
	_, err = metrics.New(cfg)
	require.NoError(t, err)
}
