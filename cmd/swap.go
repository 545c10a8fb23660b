package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/orchestrator"
	"base-swap/pkg/parser"
	"base-swap/pkg/quote"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

var (
	swapFromChain int64
	noConfirm     bool
	skipPreview   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Bridge funds to Base and swap them in one flow",
	Long: `Bridge an amount from a source chain to Base, wait for settlement, then
approve and swap it into the destination token through the Uniswap V3
router. The swap leg runs on Base regardless of where the funds start.

A price preview is quoted from the Uniswap pools before the
confirmation prompt; use --no-preview to skip it.

Examples:
  # Bridge from Ethereum mainnet and swap
  base-swap swap 0.5 ETH to SPX --from-chain 1

  # Bridge from Arbitrum, skip all confirmations
  base-swap swap 100 USDC to TOSHI --from-chain 42161 --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().Int64Var(&swapFromChain, "from-chain", 0, "Source chain id (REQUIRED)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().BoolVar(&skipPreview, "no-preview", false, "Skip the price preview quote")
	_ = swapCmd.MarkFlagRequired("from-chain")
}

func runSwap(cmd *cobra.Command, args []string) {
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

	// Price preview before anything irreversible
	if !skipPreview && !jsonOutput {
		previewQuote(cmd, cfg, swapReq, log)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	if err := gw.ensureSession(cmd.Context()); err != nil {
		printError(err)
		os.Exit(1)
	}

	orch := orchestrator.New(gw.client, orchestratorOptions(cfg), log)
	req := orchestrator.Request{
		FromAmount:  swapReq.Amount,
		FromToken:   swapReq.SourceToken,
		FromChain:   swapFromChain,
		ToToken:     swapReq.DestToken,
		UserAddress: gw.provider.Address,
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	result, err := orch.ExecuteBridgeThenSwap(cmd.Context(), req, progressCallbacks(s, jsonOutput))
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(jsonData))
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	displaySwapResult(swapReq, result)
	if !result.Success {
		os.Exit(1)
	}
}

// previewQuote prints an indicative output amount from the Uniswap
// pools. A preview failure is not fatal; the swap can still proceed.
func previewQuote(cmd *cobra.Command, cfg *config.Config, swapReq *parser.SwapRequest, log zerolog.Logger) {
	quoter, err := quote.Dial(cfg.BaseRPCURL, log)
	if err != nil {
		color.Yellow("\nPrice preview unavailable: %v", err)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching price preview..."
	s.Start()
	preview := quoter.SwapQuoteOnBase(cmd.Context(), swapReq.SourceToken, swapReq.Amount, swapReq.DestToken, cfg.FeeTier)
	s.Stop()

	if !preview.Success {
		color.Yellow("\nPrice preview unavailable: %s", preview.Error)
		return
	}

	fmt.Printf("\n  %s %s  ->  ~%s %s  %s\n",
		swapReq.Amount, color.YellowString(swapReq.SourceToken),
		color.GreenString(preview.OutputAmount), color.YellowString(swapReq.DestToken),
		color.HiBlackString("(%.2f%% pool)", float64(preview.FeeTierUsed)/10000))
}

func progressCallbacks(s *spinner.Spinner, jsonOutput bool) orchestrator.Callbacks {
	if jsonOutput {
		return orchestrator.Callbacks{}
	}
	return orchestrator.Callbacks{
		OnBridgeStart: func() {
			s.Suffix = " Bridging funds to Base..."
			s.Start()
		},
		OnBridgeComplete: func() {
			s.Stop()
			color.Green("✓ Bridge complete")
			s.Suffix = " Waiting for settlement..."
			s.Start()
		},
		OnSwapStart: func() {
			s.Stop()
			s.Suffix = " Approving and swapping on Base..."
			s.Start()
		},
		OnApprovalComplete: func() {
			s.Stop()
			color.Green("✓ Token approval complete")
			s.Start()
		},
		OnSwapComplete: func() {
			s.Stop()
			color.Green("✓ Swap complete")
		},
		OnError: func(message string) {
			s.Stop()
			color.Red("✗ %s", message)
		},
	}
}

func displaySwapResult(swapReq *parser.SwapRequest, result *types.BridgeThenSwapResult) {
	chain, _ := registry.ChainByID(swapFromChain)

	fmt.Println("\n" + strings.Repeat("=", 60))
	if result.Success {
		color.Green("                   SWAP SUCCESSFUL")
	} else {
		color.Red("                    SWAP FAILED")
	}
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Route:     %s %s on %s -> %s on Base\n",
		swapReq.Amount, color.YellowString(swapReq.SourceToken), chain.Name,
		color.YellowString(swapReq.DestToken))

	if result.BridgeTransactionHash != "" {
		fmt.Printf("  Bridge tx: %s\n", color.CyanString(result.BridgeTransactionHash))
		if result.BridgeExplorerURL != "" {
			fmt.Printf("             %s\n", color.HiBlackString(result.BridgeExplorerURL))
		}
	}
	if result.ExecuteTransactionHash != "" {
		fmt.Printf("  Swap tx:   %s\n", color.CyanString(result.ExecuteTransactionHash))
		if result.ExecuteExplorerURL != "" {
			fmt.Printf("             %s\n", color.HiBlackString(result.ExecuteExplorerURL))
		}
	}

	if !result.Success && result.Error != "" {
		color.Red("\n  %s", result.Error)
		if result.BridgeTransactionHash != "" {
			color.Yellow("  Funds were bridged to Base but not swapped. They remain in your wallet on Base.")
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
