package probe

import (
	"github.com/kinetix/kx-console/internal/api"
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `Runs the readiness probes and additionally reads the oracle price through the contract.
Exits with status 1 if a probe fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			return runProbe(cmd.Context(), verbose, (*api.Server).ProbeLiveness)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}
