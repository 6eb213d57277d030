package kx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	jsonFlag    = "json"
	addressFlag = "address"
)

func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("kx",
		newPrice(),
		newSellTarget(),
		newPositions(),
		newPositionCount(),
		newBalance(),
		newCheckUpkeep(),
		newContract(),
		newBuy(),
		newSell(),
		newWithdraw(),
		newPerformUpkeep(),
	)
	cmd.Short = "Reads and writes of the Kinetix KX contract"
	cmd.PersistentFlags().Bool(jsonFlag, false, "Print results as JSON.")

	return cmd
}

// withService runs f with the server components built from ENV and flags.
func withService(cmd *cobra.Command, cfg config.Server, f func(ctx context.Context, s *api.Server, out io.Writer) error) error {
	return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
		return f(ctx, s, cmd.OutOrStdout())
	})
}

// printResult renders v as indented JSON with --json, otherwise calls human.
func printResult(cmd *cobra.Command, out io.Writer, v interface{}, human func(w io.Writer)) error {
	asJSON, err := cmd.Flags().GetBool(jsonFlag)
	if err != nil {
		return err
	}

	if !asJSON {
		human(out)
		return nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(b))
	return err
}
