package orchestrator

import (
	"context"
	"math/big"

	"base-swap/pkg/amount"
	"base-swap/pkg/client"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

// slippageToleranceBps is the fixed tolerance the dry run budgets for:
// the minimum output is 95% of the naive input-equivalent.
const slippageToleranceBps = 500

// Simulate asks the gateway for a dry-run cost and feasibility estimate
// of the full bridge+swap. Unsupported inputs and estimator failures
// both yield nil with a logged diagnostic; nothing is surfaced as a
// transaction error before the user even confirms.
func (o *Orchestrator) Simulate(ctx context.Context, req Request) *types.SimulationResult {
	toTokenData, err := o.validate(req)
	if err != nil {
		return nil
	}

	// naive input-equivalent at the destination token's precision,
	// less the fixed tolerance
	naive, err := amount.ParseDecimal(req.FromAmount, toTokenData.Decimals)
	if err != nil {
		o.log.Error().Err(err).Str("amount", req.FromAmount).Msg("invalid simulation amount")
		return nil
	}
	minOut := new(big.Int).Mul(naive, big.NewInt(10000-slippageToleranceBps))
	minOut.Div(minOut, big.NewInt(10000))

	execute := o.executeParams(req, toTokenData, minOut)

	result, err := o.sdk.SimulateBridgeAndExecute(ctx, client.BridgeAndExecuteParams{
		Token:        req.FromToken,
		Amount:       req.FromAmount,
		ToChainID:    registry.BaseChainID,
		SourceChains: []int64{req.FromChain},
		Recipient:    req.UserAddress,
		Execute:      &execute,
	})
	if err != nil {
		o.log.Error().Err(err).Msg("simulation failed")
		return nil
	}
	return result
}
