package kx

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/spf13/cobra"
)

// reads never sign, a key is only loaded to default the account to the sender
func readConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	if cfg.Signer.SenderAddress != "" {
		cfg.Signer.KeySource = config.KeySourceNone
		cfg.Signer.Mode = config.SignerModeDisplay
	}
	return cfg
}

func addressOf(cmd *cobra.Command) string {
	address, _ := cmd.Flags().GetString(addressFlag)
	return address
}

func newPrice() *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Prints the oracle ETH/USD price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				price, err := s.Kinetix.GetEthPrice(ctx)
				if err != nil {
					return err
				}

				return printResult(cmd, out, price, func(w io.Writer) {
					fmt.Fprintf(w, "ETH/USD: $%s\n", price.USD())
				})
			})
		},
	}
}

func newSellTarget() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell-target",
		Short: "Prints the price at which positions are sold automatically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				price, err := s.Kinetix.GetSellTargetPrice(ctx, addressOf(cmd))
				if err != nil {
					return err
				}

				return printResult(cmd, out, price, func(w io.Writer) {
					fmt.Fprintf(w, "Sell target: $%s\n", price.USD())
				})
			})
		},
	}
	cmd.Flags().String(addressFlag, "", "Account to query, defaults to the sender.")

	return cmd
}

func newPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Lists positions in contract order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				positions, err := s.Kinetix.GetPositions(ctx, addressOf(cmd))
				if err != nil {
					return err
				}

				return printResult(cmd, out, positions, func(w io.Writer) {
					if len(positions) == 0 {
						fmt.Fprintln(w, "No positions.")
						return
					}

					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tENTRY (USD)\tAMOUNT (ETH)\tSTATUS")
					for _, p := range positions {
						status := "open"
						if p.Sold {
							status = "sold"
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.EntryPriceUSD, p.AmountEther, status)
					}
					tw.Flush()
				})
			})
		},
	}
	cmd.Flags().String(addressFlag, "", "Account to query, defaults to the sender.")

	return cmd
}

func newPositionCount() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position-count",
		Short: "Prints the number of positions opened by an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				count, err := s.Kinetix.GetPositionCount(ctx, addressOf(cmd))
				if err != nil {
					return err
				}

				return printResult(cmd, out, map[string]string{"count": count.String()}, func(w io.Writer) {
					fmt.Fprintf(w, "Positions: %s\n", count)
				})
			})
		},
	}
	cmd.Flags().String(addressFlag, "", "Account to query, defaults to the sender.")

	return cmd
}

func newBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Prints the KX token balance of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				balance, err := s.Kinetix.GetTokenBalance(ctx, addressOf(cmd))
				if err != nil {
					return err
				}

				return printResult(cmd, out, balance, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s KX\n", balance.Account.Hex(), balance.Amount)
				})
			})
		},
	}
	cmd.Flags().String(addressFlag, "", "Account to query, defaults to the sender.")

	return cmd
}

func newCheckUpkeep() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-upkeep",
		Short: "Asks the contract whether automation should run performUpkeep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checkData, err := cmd.Flags().GetString("check-data")
			if err != nil {
				return err
			}

			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				check, err := s.Kinetix.CheckUpkeep(ctx, checkData)
				if err != nil {
					return err
				}

				return printResult(cmd, out, check, func(w io.Writer) {
					fmt.Fprintf(w, "Upkeep needed: %t\nPerform data: %s\n", check.UpkeepNeeded, hexutil.Encode(check.PerformData))
				})
			})
		},
	}
	cmd.Flags().String("check-data", "0x", "checkData passed to checkUpkeep, 0x-prefixed hex.")

	return cmd
}

func newContract() *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Describes the bound contract methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, readConfig(), func(ctx context.Context, s *api.Server, out io.Writer) error {
				methods := s.Kinetix.Methods()

				return printResult(cmd, out, methods, func(w io.Writer) {
					fmt.Fprintf(w, "Contract %s, sender %s (%s)\n", s.Kinetix.Address().Hex(), s.Kinetix.Sender().Hex(), s.Kinetix.Mode())

					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "METHOD\tKIND\tPAYABLE\tINPUTS\tOUTPUTS")
					for _, m := range methods {
						fmt.Fprintf(tw, "%s\t%s\t%t\t%v\t%v\n", m.Name, m.Mutability, m.Payable, m.Inputs, m.Outputs)
					}
					tw.Flush()
				})
			})
		},
	}
}
