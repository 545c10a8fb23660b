package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "base-swap",
	Short: "A CLI for bridge-then-swap trades into Base tokens",
	Long: `base-swap is a command-line tool that bridges funds from any supported
chain to Base and swaps them into a destination token through Uniswap V3,
in one flow. Balances are read through a chain-abstraction gateway, so a
single command sees your funds across every chain.

Examples:
  base-swap init
  base-swap balances
  base-swap quote 0.5 ETH to SPX
  base-swap swap 0.5 ETH to SPX --from-chain 42161
  base-swap list-tokens`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// newLogger builds the process logger; verbose lowers the level to debug.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
