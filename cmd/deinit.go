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

var deinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Tear down the gateway session",
	Long: `Tear down the chain-abstraction gateway session and clear the
persisted session flag. Running deinit without an open session is a no-op.

Examples:
  base-swap deinit`,
	Run: runDeinit,
}

func init() {
	rootCmd.AddCommand(deinitCmd)
}

func runDeinit(cmd *cobra.Command, args []string) {
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
		s.Suffix = " Closing gateway session..."
		s.Start()
	}

	err = client.CloseSession(cmd.Context(), gw.client, gw.store)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess(color.GreenString("✓ Session closed"))
}
