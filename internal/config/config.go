package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LoggingConfig  `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Chains   ChainsConfig   `yaml:"chains"`
	Recorder RecorderConfig `yaml:"recorder"`
	Builder  BuilderConfig  `yaml:"builder"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ExchangeConfig struct {
	MainnetURL string        `yaml:"mainnet_url"`
	TestnetURL string        `yaml:"testnet_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// GatewayConfig points at the internal price gateway used to resolve
// market-order prices.
type GatewayConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ChainsConfig struct {
	ArbitrumRPCURL        string `yaml:"arbitrum_rpc_url"`
	ArbitrumSepoliaRPCURL string `yaml:"arbitrum_sepolia_rpc_url"`
}

type RecorderConfig struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type BuilderConfig struct {
	Address    string `yaml:"address"`
	MaxFeeRate string `yaml:"max_fee_rate"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, validate(&cfg)
}

// applyEnv lets deployment environments override the endpoints that differ
// per installation without editing the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PRICE_GATEWAY_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("ARBITRUM_RPC_URL"); v != "" {
		cfg.Chains.ArbitrumRPCURL = v
	}
	if v := os.Getenv("ARBITRUM_SEPOLIA_RPC_URL"); v != "" {
		cfg.Chains.ArbitrumSepoliaRPCURL = v
	}
	if v := os.Getenv("HL_BUILDER_ADDRESS"); v != "" {
		cfg.Builder.Address = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8787"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Exchange.MainnetURL == "" {
		cfg.Exchange.MainnetURL = "https://api.hyperliquid.xyz"
	}
	if cfg.Exchange.TestnetURL == "" {
		cfg.Exchange.TestnetURL = "https://api.hyperliquid-testnet.xyz"
	}
	if cfg.Exchange.Timeout == 0 {
		cfg.Exchange.Timeout = 10 * time.Second
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 5 * time.Second
	}
	if cfg.Recorder.Backend == "" {
		cfg.Recorder.Backend = "sqlite"
	}
	if cfg.Recorder.SQLitePath == "" {
		cfg.Recorder.SQLitePath = "data/hl-action-server.db"
	}
	if cfg.Builder.MaxFeeRate == "" {
		cfg.Builder.MaxFeeRate = "0.1%"
	}
}

func validate(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.base_url is required (or set PRICE_GATEWAY_URL)")
	}
	if cfg.Chains.ArbitrumRPCURL == "" {
		return errors.New("chains.arbitrum_rpc_url is required (or set ARBITRUM_RPC_URL)")
	}
	if cfg.Chains.ArbitrumSepoliaRPCURL == "" {
		return errors.New("chains.arbitrum_sepolia_rpc_url is required (or set ARBITRUM_SEPOLIA_RPC_URL)")
	}
	switch cfg.Recorder.Backend {
	case "sqlite":
	case "postgres":
		if cfg.Recorder.PostgresDSN == "" {
			return errors.New("recorder.postgres_dsn is required for the postgres backend")
		}
	default:
		return errors.New("recorder.backend must be sqlite or postgres")
	}
	return nil
}
