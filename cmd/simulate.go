package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/orchestrator"
	"base-swap/pkg/parser"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

var simulateFromChain int64

var simulateCmd = &cobra.Command{
	Use:   "simulate <amount> <source-token> to <dest-token>",
	Short: "Dry-run a bridge-then-swap and estimate its cost",
	Long: `Ask the gateway for a dry-run estimate of a full bridge-then-swap:
total cost, whether a token approval is needed, and how many
transactions the flow will take. Nothing is executed.

Examples:
  base-swap simulate 0.5 ETH to SPX --from-chain 1
  base-swap simulate 100 USDC to TOSHI --from-chain 42161`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int64Var(&simulateFromChain, "from-chain", 0, "Source chain id (REQUIRED)")
	_ = simulateCmd.MarkFlagRequired("from-chain")
}

func runSimulate(cmd *cobra.Command, args []string) {
	// Parse the command
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

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

	orch := orchestrator.New(gw.client, orchestratorOptions(cfg), log)
	req := orchestrator.Request{
		FromAmount:  swapReq.Amount,
		FromToken:   swapReq.SourceToken,
		FromChain:   simulateFromChain,
		ToToken:     swapReq.DestToken,
		UserAddress: gw.provider.Address,
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Simulating bridge and swap..."
		s.Start()
	}

	var result *types.SimulationResult
	if err := gw.ensureSession(cmd.Context()); err == nil {
		result = orch.Simulate(cmd.Context(), req)
	} else {
		log.Error().Err(err).Msg("session setup failed")
	}
	if !jsonOutput {
		s.Stop()
	}

	if result == nil {
		printError(fmt.Errorf("simulation unavailable for %s %s -> %s from chain %d",
			swapReq.Amount, swapReq.SourceToken, swapReq.DestToken, simulateFromChain))
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displaySimulation(swapReq, result)
}

func displaySimulation(swapReq *parser.SwapRequest, result *types.SimulationResult) {
	chain, _ := registry.ChainByID(simulateFromChain)

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                 SIMULATION RESULT")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Route:            %s %s on %s -> %s on Base\n",
		swapReq.Amount, color.YellowString(swapReq.SourceToken), chain.Name,
		color.YellowString(swapReq.DestToken))
	fmt.Printf("  Estimated cost:   %s\n", color.CyanString(result.TotalEstimatedCost.Total))
	fmt.Printf("  Approval needed:  %v\n", result.ApprovalRequired)
	fmt.Printf("  Transactions:     %d\n", result.Steps)

	if !result.Success && result.Error != "" {
		color.Red("\n  Gateway flagged: %s\n", result.Error)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
