package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/api/router"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the JSON API",
		Long: `Starts the JSON API in front of the Kinetix KX contract.

Requires configuration through ENV.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return command.WithServer(ctx, config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
		if err := router.Init(s); err != nil {
			return err
		}

		errs := make(chan error, 1)
		go func() {
			log.Info().Str("address", s.Config.Echo.ListenAddress).Str("contract", s.Kinetix.Address().Hex()).
				Str("sender", s.Kinetix.Sender().Hex()).Str("mode", s.Kinetix.Mode().String()).Msg("Starting server")
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
			close(errs)
		}()

		select {
		case err, ok := <-errs:
			if ok {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("Received shutdown signal")

		// echo first, the key and the connection are released by WithServer
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		if err := s.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})
}
