package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 30 * time.Second
)

// NewSubcommandGroup returns a command that only prints its help and groups subCommands.
func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s related subcommands", name),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// WithServer configures the global logger, initializes all server components from config and
// runs f. The server is shut down afterwards, which destroys the signing key.
func WithServer(ctx context.Context, config config.Server, f func(ctx context.Context, s *api.Server) error) error {
	util.ConfigureGlobalLogger(config.Logger.Level, config.Logger.PrettyPrintConsole)

	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	s, err := api.InitNewServer(config)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
		}
	}()

	return f(ctx, s)
}
