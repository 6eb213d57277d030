package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util/command"
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `Checks that all components are initialized and the node answers.
Exits with status 1 if a probe fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			return runProbe(cmd.Context(), verbose, (*api.Server).ProbeReadiness)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runProbe(ctx context.Context, verbose bool, probe func(s *api.Server, ctx context.Context) []error) error {
	cfg := config.DefaultServiceConfigFromEnv()
	if cfg.Signer.KeySource == config.KeySourcePrompt {
		// probes never block on a terminal
		cfg.Signer.KeySource = config.KeySourceNone
		cfg.Signer.Mode = config.SignerModeDisplay
	}

	var failed bool
	err := command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		errs := probe(s, ctx)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Probe failed: %v\n", e)
		}
		failed = len(errs) > 0
		return nil
	})
	if err != nil {
		return err
	}

	if failed {
		os.Exit(1)
	}

	if verbose {
		fmt.Println("All probes succeeded.")
	}

	return nil
}
