package chains

import (
	"fmt"

	"hl-action-server/internal/config"
)

type Environment string

const (
	EnvMainnet Environment = "mainnet"
	EnvTestnet Environment = "testnet"
)

// ChainConfig binds one environment to its settlement chain and the
// endpoints every handler needs.
type ChainConfig struct {
	Env        Environment
	Chain      string
	ChainID    int64
	RPCURL     string
	APIBaseURL string
	// Network tags action records, e.g. "hyperliquid-testnet".
	Network string
}

func (c ChainConfig) IsMainnet() bool {
	return c.Env == EnvMainnet
}

type Resolver struct {
	mainnet ChainConfig
	testnet ChainConfig
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		mainnet: ChainConfig{
			Env:        EnvMainnet,
			Chain:      "arbitrum",
			ChainID:    42161,
			RPCURL:     cfg.Chains.ArbitrumRPCURL,
			APIBaseURL: cfg.Exchange.MainnetURL,
			Network:    "hyperliquid",
		},
		testnet: ChainConfig{
			Env:        EnvTestnet,
			Chain:      "arbitrum-sepolia",
			ChainID:    421614,
			RPCURL:     cfg.Chains.ArbitrumSepoliaRPCURL,
			APIBaseURL: cfg.Exchange.TestnetURL,
			Network:    "hyperliquid-testnet",
		},
	}
}

func (r *Resolver) Resolve(env Environment) (ChainConfig, error) {
	switch env {
	case EnvMainnet:
		return r.mainnet, nil
	case EnvTestnet, "":
		return r.testnet, nil
	default:
		return ChainConfig{}, fmt.Errorf("unknown environment %q", env)
	}
}
