package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"base-swap/config"
	"base-swap/pkg/client"
	"base-swap/pkg/orchestrator"
	"base-swap/pkg/registry"
)

// gatewaySetup bundles everything a command needs to talk to the gateway
type gatewaySetup struct {
	client   *client.Client
	store    *client.SessionStore
	provider client.Provider
}

// newGatewaySetup builds the gateway client, session store and wallet
// provider from configuration.
func newGatewaySetup(cfg *config.Config, log zerolog.Logger) (*gatewaySetup, error) {
	if cfg.UserAddress == "" {
		return nil, fmt.Errorf("wallet address not configured. Please set BASE_SWAP_USER_ADDRESS or user_address in .base-swap.yaml")
	}
	if !common.IsHexAddress(cfg.UserAddress) {
		return nil, fmt.Errorf("invalid wallet address: %s", cfg.UserAddress)
	}

	store, err := client.NewSessionStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	return &gatewaySetup{
		client: client.New(cfg.GatewayURL, cfg.GatewayToken, log),
		store:  store,
		provider: client.Provider{
			Address: common.HexToAddress(cfg.UserAddress),
			ChainID: registry.BaseChainID,
		},
	}, nil
}

// orchestratorOptions maps tuning knobs from configuration. A malformed
// min_amount_out falls back to the zero default.
func orchestratorOptions(cfg *config.Config) orchestrator.Options {
	opts := orchestrator.Options{
		SettleDelay: cfg.SettleDelay,
		FeeTier:     cfg.FeeTier,
	}
	if cfg.MinAmountOut != "" {
		if v, ok := new(big.Int).SetString(cfg.MinAmountOut, 10); ok {
			opts.MinAmountOut = v
		}
	}
	return opts
}

// ensureSession resumes a previously opened gateway session if the flag
// file says one exists, otherwise opens a fresh one. Commands that talk
// to the gateway call this instead of forcing an explicit init.
func (g *gatewaySetup) ensureSession(ctx context.Context) error {
	resumed, err := client.EnsureSession(ctx, g.client, g.store, g.provider)
	if err != nil {
		return fmt.Errorf("failed to resume gateway session: %w", err)
	}
	if !resumed && !g.client.IsInitialized() {
		if err := client.OpenSession(ctx, g.client, g.store, g.provider); err != nil {
			return fmt.Errorf("failed to open gateway session: %w", err)
		}
	}
	return nil
}
