package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/parser"
	"base-swap/pkg/quote"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

var (
	quoteFeeTier  int64
	watchInterval time.Duration
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Quote a swap against the Uniswap V3 pools on Base",
	Long: `Quote how much of a destination token a given input amount would buy on
Base, by querying the Uniswap V3 quoter contract directly. Without
--fee-tier the 0.05%, 0.3% and 1% pools are tried in order and the first
pool with liquidity wins.

Quoting reads chain state only; no gateway session is needed.

Examples:
  base-swap quote 0.5 ETH to SPX
  base-swap quote 100 USDC to TOSHI --fee-tier 3000
  base-swap quote 0.5 ETH to SPX --watch 10s`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().Int64Var(&quoteFeeTier, "fee-tier", 0, "Pin a pool fee tier (500, 3000 or 10000)")
	quoteCmd.Flags().DurationVar(&watchInterval, "watch", 0, "Re-quote at this interval until interrupted")
}

func runQuote(cmd *cobra.Command, args []string) {
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

	quoter, err := quote.Dial(cfg.BaseRPCURL, log)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if watchInterval > 0 && !jsonOutput {
		watchQuote(cmd, quoter, swapReq)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	result := quoter.SwapQuoteOnBase(cmd.Context(), swapReq.SourceToken, swapReq.Amount, swapReq.DestToken, quoteFeeTier)
	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(jsonData))
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	if !result.Success {
		printError(fmt.Errorf("%s", result.Error))
		os.Exit(1)
	}

	displaySwapQuote(swapReq, result)
}

// watchQuote re-quotes on a ticker. Fetches go through the debouncing
// scheduler so a slow RPC response can never print over a newer one.
func watchQuote(cmd *cobra.Command, quoter *quote.Client, swapReq *parser.SwapRequest) {
	fetch := func(ctx context.Context, req quote.Request) types.SwapQuote {
		return quoter.SwapQuoteOnBase(ctx, req.FromToken, req.FromAmount, req.ToToken, req.FeeTier)
	}
	publish := func(req quote.Request, q types.SwapQuote) {
		stamp := color.HiBlackString(time.Now().Format("15:04:05"))
		if !q.Success {
			fmt.Printf("%s  %s\n", stamp, color.RedString(q.Error))
			return
		}
		fmt.Printf("%s  %s %s  ->  %s %s  %s\n",
			stamp,
			req.FromAmount, color.YellowString(req.FromToken),
			color.GreenString(q.OutputAmount), color.YellowString(req.ToToken),
			color.HiBlackString("(%.2f%% pool)", float64(q.FeeTierUsed)/10000))
	}

	sched := quote.NewScheduler(200*time.Millisecond, fetch, publish)
	defer sched.Stop()

	req := quote.Request{
		FromToken:  swapReq.SourceToken,
		FromAmount: swapReq.Amount,
		ToToken:    swapReq.DestToken,
		FeeTier:    quoteFeeTier,
	}

	fmt.Printf("\nWatching %s %s -> %s every %s. Ctrl-C to stop.\n\n",
		req.FromAmount, req.FromToken, req.ToToken, watchInterval)

	sched.Submit(cmd.Context(), req)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return
		case <-ticker.C:
			sched.Submit(cmd.Context(), req)
		}
	}
}

func displaySwapQuote(swapReq *parser.SwapRequest, result types.SwapQuote) {
	toToken, _ := registry.DestinationToken(swapReq.DestToken)

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:      %s %s\n", swapReq.Amount, color.YellowString(swapReq.SourceToken))
	fmt.Printf("  To:        ~%s %s\n", color.GreenString(result.OutputAmount), color.YellowString(swapReq.DestToken))
	if toToken.Name != "" {
		fmt.Printf("  Token:     %s (%s)\n", toToken.Name, color.HiBlackString(toToken.Address.Hex()))
	}
	fmt.Printf("  Pool fee:  %.2f%%\n", float64(result.FeeTierUsed)/10000)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
