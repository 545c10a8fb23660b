package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/registry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and configuration status",
	Long: `Show the configured wallet, gateway, RPC endpoint and whether a
gateway session is currently open.

Examples:
  base-swap status
  base-swap status --json`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
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

	sessionOpen := gw.store.WasInitialized()

	if jsonOutput {
		output := map[string]interface{}{
			"wallet":         gw.provider.Address.Hex(),
			"gateway_url":    cfg.GatewayURL,
			"base_rpc_url":   cfg.BaseRPCURL,
			"session_open":   sessionOpen,
			"settle_delay":   cfg.SettleDelay.String(),
			"fee_tier":       cfg.FeeTier,
			"min_amount_out": cfg.MinAmountOut,
			"source_chains":  len(registry.Chains),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                        STATUS")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Wallet:       %s\n", color.CyanString(gw.provider.Address.Hex()))
	fmt.Printf("  Gateway:      %s\n", cfg.GatewayURL)
	fmt.Printf("  Base RPC:     %s\n", cfg.BaseRPCURL)
	if sessionOpen {
		fmt.Printf("  Session:      %s\n", color.GreenString("open"))
	} else {
		fmt.Printf("  Session:      %s (run: base-swap init)\n", color.YellowString("closed"))
	}
	fmt.Printf("  Settle delay: %s\n", cfg.SettleDelay)
	fmt.Printf("  Fee tier:     %.2f%%\n", float64(cfg.FeeTier)/10000)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
