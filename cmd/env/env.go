package env

import (
	"encoding/json"
	"fmt"

	"github.com/kinetix/kx-console/internal/config"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the env",
		Long: `Prints the currently applied env

Secrets such as the private key, keystore password and mnemonic are never printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := json.MarshalIndent(config.DefaultServiceConfigFromEnv(), "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(c))
			return nil
		},
	}
}
