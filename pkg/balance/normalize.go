// Package balance flattens the gateway's nested unified-balance payload
// into a per-chain token list.
package balance

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

// Normalizer turns abstracted token balances into flat TokenBalance rows
type Normalizer struct {
	log zerolog.Logger
}

// NewNormalizer creates a normalizer that reports malformed input
// through the given logger.
func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize flattens every breakdown entry across all input tokens,
// preserving input order. Zero balances are dropped and native entries
// are flagged by their all-zero contract address. The literal balance
// string is kept so precision never leaves the gateway's representation.
func (n *Normalizer) Normalize(raw []types.AbstractedTokenBalance) []types.TokenBalance {
	out := make([]types.TokenBalance, 0, len(raw))

	for _, token := range raw {
		for _, cb := range token.Breakdown {
			value, err := decimal.NewFromString(cb.Balance)
			if err != nil {
				n.log.Debug().
					Str("symbol", token.Symbol).
					Str("balance", cb.Balance).
					Msg("skipping entry with unparseable balance")
				continue
			}
			if value.IsZero() {
				continue
			}

			out = append(out, types.TokenBalance{
				Chain:           cb.Chain.Name,
				ChainID:         cb.Chain.ID,
				ChainLogo:       cb.Chain.Logo,
				Symbol:          token.Symbol,
				Balance:         cb.Balance,
				Decimals:        cb.Decimals,
				ContractAddress: cb.ContractAddress,
				IsNative:        isNativeAddress(cb.ContractAddress),
				Icon:            token.Icon,
				BalanceInFiat:   cb.BalanceInFiat,
			})
		}
	}

	return out
}

// NormalizeRaw decodes a raw gateway payload and normalizes it. A
// payload that is not an array of token balances yields an empty list
// and a logged diagnostic; it never fails to the caller.
func (n *Normalizer) NormalizeRaw(data []byte) []types.TokenBalance {
	var raw []types.AbstractedTokenBalance
	if err := json.Unmarshal(data, &raw); err != nil {
		n.log.Error().Err(err).Msg("malformed unified balance payload")
		return []types.TokenBalance{}
	}
	return n.Normalize(raw)
}

// isNativeAddress reports whether the contract address is the canonical
// all-zero native-asset marker.
func isNativeAddress(addr string) bool {
	return strings.EqualFold(addr, registry.ZeroAddress.Hex())
}
