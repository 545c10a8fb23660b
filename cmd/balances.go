package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"base-swap/config"
	"base-swap/pkg/balance"
	"base-swap/pkg/types"
)

var (
	balanceSymbol string
	balanceRaw    bool
)

var balancesCmd = &cobra.Command{
	Use:     "balances",
	Aliases: []string{"balance", "bal"},
	Short:   "Show unified token balances across all supported chains",
	Long: `Show the wallet's token balances across every supported chain, as
reported by the chain-abstraction gateway. Zero balances are dropped
unless --raw is set.

Examples:
  base-swap balances
  base-swap balances --symbol ETH
  base-swap balances --raw`,
	Run: runBalances,
}

func init() {
	rootCmd.AddCommand(balancesCmd)

	balancesCmd.Flags().StringVar(&balanceSymbol, "symbol", "", "Show a single token symbol")
	balancesCmd.Flags().BoolVar(&balanceRaw, "raw", false, "Print the raw gateway payload, zero balances included")
}

func runBalances(cmd *cobra.Command, args []string) {
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
		s.Suffix = " Fetching unified balances..."
		s.Start()
	}

	var unified []types.AbstractedTokenBalance
	err = gw.ensureSession(cmd.Context())
	if err == nil {
		if balanceSymbol != "" {
			var one *types.AbstractedTokenBalance
			one, err = gw.client.GetUnifiedBalance(cmd.Context(), strings.ToUpper(balanceSymbol))
			if one != nil {
				unified = []types.AbstractedTokenBalance{*one}
			}
		} else {
			unified, err = gw.client.GetUnifiedBalances(cmd.Context())
		}
	}
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if balanceRaw {
		jsonData, _ := json.MarshalIndent(unified, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	normalized := balance.NewNormalizer(log).Normalize(unified)

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(normalized, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayBalances(normalized)
}

// formatDisplayBalance shortens a balance for the table: two decimals
// for amounts of at least one, two significant digits below that. The
// literal string is kept in JSON output; this is display only.
func formatDisplayBalance(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, 0)) {
		out := d.StringFixed(2)
		out = strings.TrimRight(out, "0")
		return strings.TrimRight(out, ".")
	}
	f, _ := d.Float64()
	return strconv.FormatFloat(f, 'g', 2, 64)
}

func displayBalances(balances []types.TokenBalance) {
	if len(balances) == 0 {
		fmt.Println("\nNo non-zero balances found.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                          UNIFIED BALANCES")
	fmt.Println(strings.Repeat("=", 80))

	// Group balances by token symbol
	bySymbol := make(map[string][]types.TokenBalance)
	var order []string
	for _, b := range balances {
		if _, seen := bySymbol[b.Symbol]; !seen {
			order = append(order, b.Symbol)
		}
		bySymbol[b.Symbol] = append(bySymbol[b.Symbol], b)
	}

	totalFiat := decimal.Zero
	haveFiat := false

	for _, symbol := range order {
		color.Cyan("\n%s", symbol)
		fmt.Println(strings.Repeat("-", 80))

		for _, b := range bySymbol[symbol] {
			kind := ""
			if b.IsNative {
				kind = color.HiBlackString("native")
			}

			fiat := ""
			if b.BalanceInFiat != nil {
				fiat = color.HiBlackString("$%.2f", *b.BalanceInFiat)
				totalFiat = totalFiat.Add(decimal.NewFromFloat(*b.BalanceInFiat))
				haveFiat = true
			}

			fmt.Printf("  %-14s  %-20s  %10s  %s\n",
				b.Chain,
				color.YellowString(formatDisplayBalance(b.Balance)),
				fiat,
				kind)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	if haveFiat {
		fmt.Printf("\nTotal: %s entries, ~$%s\n\n", color.YellowString("%d", len(balances)), totalFiat.StringFixed(2))
	} else {
		fmt.Printf("\nTotal: %d entries\n\n", len(balances))
	}
}
