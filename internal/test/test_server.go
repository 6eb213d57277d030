package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kinetix/kx-console/contracts"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/api/router"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/stretchr/testify/require"
)

// DefaultTestConfig is the env based config pointed at the test contract and the development key.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Chain.RPCURL = "http://127.0.0.1:8545"
	cfg.Chain.ChainID = TestChainID.Int64()
	cfg.Contract.Address = TestContractAddress.Hex()
	cfg.Contract.ABIPath = filepath.Join(util.GetProjectRootDir(), contracts.DefaultABIPath)
	cfg.Metrics.Enabled = true
	cfg.Signer.Mode = config.SignerModeSign
	cfg.Signer.KeySource = config.KeySourceEnv
	cfg.Signer.PrivateKey = TestPrivateKey
	cfg.Signer.SenderAddress = ""

	return cfg
}

// WithTestServer executes closure with a fully wired server talking to a FakeConnection.
// Use FakeConnectionOf to set node expectations.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable executes closure with a server created from config.
func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, config, NewFakeConnection())

	closure(s)

	// echo is shutdown even if the test failed; the fake connection is not closed
	ctx, cancel := context.WithTimeout(context.Background(), config.Management.ReadinessTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("Failed to shutdown server: %v", errs)
	}
}

// NewTestServer initializes a server over conn and attaches all routes.
func NewTestServer(t *testing.T, config config.Server, conn *FakeConnection) *api.Server {
	t.Helper()

	s, err := api.InitNewServerWithConnection(config, conn)
	require.NoError(t, err, "failed to init server")

	err = router.Init(s)
	require.NoError(t, err, "failed to init router")

	return s
}

// FakeConnectionOf returns the FakeConnection the test server was wired with.
func FakeConnectionOf(t *testing.T, s *api.Server) *FakeConnection {
	t.Helper()

	conn, ok := s.Connection.(*FakeConnection)
	require.True(t, ok, "server is not connected to a FakeConnection")

	return conn
}
