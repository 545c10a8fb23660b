package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	GatewayToken string
	GatewayURL   string
	BaseRPCURL   string
	UserAddress  string
	SessionFile  string
	SettleDelay  time.Duration
	FeeTier      int64
	MinAmountOut string
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".base-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("gateway_url", "https://gateway.nexus.network")
	viper.SetDefault("base_rpc_url", "https://mainnet.base.org")
	viper.SetDefault("session_file", "")
	viper.SetDefault("settle_delay", "5s")
	viper.SetDefault("fee_tier", 10000)
	viper.SetDefault("min_amount_out", "0")

	// Read from environment variables
	viper.SetEnvPrefix("BASE_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	// Create config struct
	cfg := &Config{
		GatewayToken: viper.GetString("gateway_token"),
		GatewayURL:   viper.GetString("gateway_url"),
		BaseRPCURL:   viper.GetString("base_rpc_url"),
		UserAddress:  viper.GetString("user_address"),
		SessionFile:  viper.GetString("session_file"),
		SettleDelay:  viper.GetDuration("settle_delay"),
		FeeTier:      viper.GetInt64("fee_tier"),
		MinAmountOut: viper.GetString("min_amount_out"),
	}

	// Validate gateway token
	if cfg.GatewayToken == "" {
		return nil, fmt.Errorf("gateway token not found. Please set BASE_SWAP_GATEWAY_TOKEN environment variable or create a .base-swap.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
