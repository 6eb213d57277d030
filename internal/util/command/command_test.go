package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/test"
	"github.com/kinetix/kx-console/internal/util/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		ctx := t.Context()

		var testError = errors.New("test error")

		s.Config.Logger.PrettyPrintConsole = false
		resultErr := command.WithServer(ctx, s.Config, func(ctx context.Context, s *api.Server) error {
			require.True(t, s.Ready())
			assert.Equal(t, test.TestSenderAddress, s.Kinetix.Sender())
			assert.Equal(t, test.TestContractAddress, s.Kinetix.Address())

			return testError
		})

		assert.Equal(t, testError, resultErr)
	})
}

func TestWithServerInvalidConfig(t *testing.T) {
	cfg := test.DefaultTestConfig()
	cfg.Contract.Address = ""

	called := false
	err := command.WithServer(t.Context(), cfg, func(ctx context.Context, s *api.Server) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}
