package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/client"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Open a gateway session for the configured wallet",
	Long: `Open a chain-abstraction gateway session for the configured wallet.

The session survives across runs: a flag file records that it was opened,
and later commands resume it silently. Running init when a session is
already open is a no-op.

Examples:
  base-swap init`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	log := newLogger(verbose)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	gw, err := newGatewaySetup(cfg, log)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Opening gateway session..."
		s.Start()
	}

	resumed, err := client.EnsureSession(cmd.Context(), gw.client, gw.store, gw.provider)
	if err == nil && !resumed && !gw.client.IsInitialized() {
		err = client.OpenSession(cmd.Context(), gw.client, gw.store, gw.provider)
	}
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if resumed {
		printSuccess(color.GreenString("✓ Session resumed for %s", gw.provider.Address.Hex()))
		return
	}
	printSuccess(color.GreenString("✓ Session opened for %s", gw.provider.Address.Hex()))
}
