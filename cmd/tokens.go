package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"base-swap/pkg/registry"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List supported source chains and destination tokens",
	Long: `List the chains funds can be bridged from, the tokens that can be
bridged, and the destination tokens available on Base.

Examples:
  base-swap list-tokens
  base-swap list-tokens --symbol SPX`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter destination tokens by symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Apply filter
	filtered := registry.DestinationTokens
	if filterSymbol != "" {
		var temp []registry.Token
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	// Output
	if jsonOutput {
		output := map[string]interface{}{
			"chains":             registry.Chains,
			"source_tokens":      registry.SourceTokens,
			"destination_tokens": filtered,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayTokens(filtered)
}

func displayTokens(tokens []registry.Token) {
	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                          SOURCE CHAINS")
	fmt.Println(strings.Repeat("=", 90))

	for _, chain := range registry.Chains {
		fmt.Printf("  %-14s  chain id %-8d  native %s\n",
			color.CyanString(chain.Name),
			chain.ID,
			color.YellowString(chain.NativeCurrency))
	}

	fmt.Printf("\nBridgeable tokens: %s\n", color.YellowString(strings.Join(registry.SourceTokens, ", ")))

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                      DESTINATION TOKENS (Base)")
	fmt.Println(strings.Repeat("=", 90))

	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	for _, token := range tokens {
		fmt.Printf("  %-10s  %-20s  %2d decimals  %s\n",
			color.YellowString(token.Symbol),
			token.Name,
			token.Decimals,
			color.HiBlackString(token.Address.Hex()))
	}

	fmt.Printf("\nTotal: %d destination tokens\n\n", len(tokens))
}
