package cmd

import (
	"fmt"
	"os"

	"github.com/kinetix/kx-console/cmd/env"
	"github.com/kinetix/kx-console/cmd/kx"
	"github.com/kinetix/kx-console/cmd/probe"
	"github.com/kinetix/kx-console/cmd/server"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "kx",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Console for the Kinetix KX contract: read prices and positions, buy, sell and withdraw.
Configured through ENV, the flags below override their ENV variable.`, config.ModuleName),
	SilenceUsage: true,
}

// persistent flags and the ENV variables they override
var persistentFlags = []struct {
	name  string
	env   string
	usage string
}{
	{"rpc-url", "KX_RPC_URL", "JSON-RPC endpoint of the node"},
	{"contract", "KX_CONTRACT_ADDRESS", "address of the Kinetix KX contract"},
	{"abi", "KX_ABI_PATH", "path to the contract ABI JSON"},
	{"signer-mode", "KX_SIGNER_MODE", "'sign' to sign locally, 'display' to print unsigned transactions"},
	{"key-source", "KX_KEY_SOURCE", "one of env, prompt, keystore, mnemonic, none"},
	{"keystore", "KX_KEYSTORE_PATH", "path to an encrypted JSON keystore"},
	{"derivation-path", "KX_DERIVATION_PATH", "BIP-32 path used with a mnemonic"},
	{"sender", "KX_SENDER_ADDRESS", "sender address, required without a key"},
}

func init() {
	for _, f := range persistentFlags {
		rootCmd.PersistentFlags().String(f.name, "", fmt.Sprintf("%s (ENV %s)", f.usage, f.env))
		util.BindFlag(f.env, rootCmd.PersistentFlags().Lookup(f.name))
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		env.New(),
		kx.New(),
		probe.New(),
		server.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
