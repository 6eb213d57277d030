package kx

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/signer"
	"github.com/kinetix/kx-console/internal/txbuilder"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/spf13/cobra"
)

const (
	displayOnlyFlag = "display-only"
	gasLimitFlag    = "gas-limit"
	gasPriceFlag    = "gas-price-gwei"
	estimateGasFlag = "estimate-gas"
)

type writeFunc func(ctx context.Context, s *api.Server, gas txbuilder.GasPolicy) (*signer.Outcome, error)

func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(displayOnlyFlag, false, "Print the unsigned transaction instead of signing and sending it.")
	cmd.Flags().Uint64(gasLimitFlag, 0, "Explicit gas limit.")
	cmd.Flags().String(gasPriceFlag, "", "Explicit gas price in gwei.")
	cmd.Flags().Bool(estimateGasFlag, false, "Estimate the gas limit through the node.")
}

func writeConfig(cmd *cobra.Command) (config.Server, error) {
	cfg := config.DefaultServiceConfigFromEnv()

	displayOnly, err := cmd.Flags().GetBool(displayOnlyFlag)
	if err != nil {
		return cfg, err
	}
	if displayOnly {
		cfg.Signer.Mode = config.SignerModeDisplay
		if cfg.Signer.SenderAddress != "" {
			cfg.Signer.KeySource = config.KeySourceNone
		}
	}

	return cfg, nil
}

func gasPolicyFromFlags(cmd *cobra.Command) (txbuilder.GasPolicy, error) {
	var policy txbuilder.GasPolicy

	limit, err := cmd.Flags().GetUint64(gasLimitFlag)
	if err != nil {
		return policy, err
	}
	policy.GasLimit = limit

	price, err := cmd.Flags().GetString(gasPriceFlag)
	if err != nil {
		return policy, err
	}
	if price != "" {
		wei, err := units.GweiToWei(price)
		if err != nil {
			return policy, err
		}
		policy.GasPrice = wei
	}

	policy.EstimateLimit, err = cmd.Flags().GetBool(estimateGasFlag)
	if err != nil {
		return policy, err
	}

	return policy, nil
}

func runWrite(cmd *cobra.Command, write writeFunc) error {
	cfg, err := writeConfig(cmd)
	if err != nil {
		return err
	}

	gas, err := gasPolicyFromFlags(cmd)
	if err != nil {
		return err
	}

	return withService(cmd, cfg, func(ctx context.Context, s *api.Server, out io.Writer) error {
		outcome, err := write(ctx, s, gas)
		if err != nil {
			if ce, ok := chainerr.As(err); ok && ce.Kind.RequiresRebuild() {
				fmt.Fprintln(cmd.ErrOrStderr(), "The transaction was not accepted, run the command again to build a new one.")
			}
			return err
		}

		return printResult(cmd, out, outcome, func(w io.Writer) {
			printOutcome(w, outcome)
		})
	})
}

func printOutcome(w io.Writer, outcome *signer.Outcome) {
	tx := outcome.Unsigned

	fmt.Fprintf(w, "%s: %s\n", tx.Method, outcome.Stage)
	fmt.Fprintf(w, "  from:      %s\n", tx.From.Hex())
	fmt.Fprintf(w, "  to:        %s\n", tx.To.Hex())
	fmt.Fprintf(w, "  value:     %s ETH\n", units.FromWei(tx.Value))
	fmt.Fprintf(w, "  chain id:  %s\n", tx.ChainID)
	fmt.Fprintf(w, "  nonce:     %d\n", tx.Nonce)
	fmt.Fprintf(w, "  gas limit: %d\n", tx.GasLimit)
	fmt.Fprintf(w, "  gas price: %s gwei\n", units.FromBaseUnits(tx.GasPrice, units.GweiDecimals))
	fmt.Fprintf(w, "  data:      %s\n", hexutil.Encode(tx.Data))

	if outcome.Handle != nil {
		fmt.Fprintf(w, "  tx hash:   %s\n", outcome.Handle.Hash.Hex())
	}
}

func newBuy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <eth-amount>",
		Short: "Opens a position paying the given amount of ETH",
		Example: `  kx kx buy 0.05
  kx kx buy 0.05 --display-only --sender 0x...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, func(ctx context.Context, s *api.Server, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
				return s.Kinetix.Buy(ctx, args[0], gas)
			})
		},
	}
	addWriteFlags(cmd)

	return cmd
}

func newSell() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sells the sender's open positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWrite(cmd, func(ctx context.Context, s *api.Server, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
				return s.Kinetix.ManualSell(ctx, gas)
			})
		},
	}
	addWriteFlags(cmd)

	return cmd
}

func newWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw <position-id>",
		Short: "Withdraws the position with the given index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, func(ctx context.Context, s *api.Server, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
				return s.Kinetix.Withdraw(ctx, args[0], gas)
			})
		},
	}
	addWriteFlags(cmd)

	return cmd
}

func newPerformUpkeep() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perform-upkeep",
		Short: "Runs the automation hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			performData, err := cmd.Flags().GetString("perform-data")
			if err != nil {
				return err
			}

			return runWrite(cmd, func(ctx context.Context, s *api.Server, gas txbuilder.GasPolicy) (*signer.Outcome, error) {
				return s.Kinetix.PerformUpkeep(ctx, performData, gas)
			})
		},
	}
	cmd.Flags().String("perform-data", "0x", "performData returned by check-upkeep, 0x-prefixed hex.")
	addWriteFlags(cmd)

	return cmd
}
