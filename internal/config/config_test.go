package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
gateway:
  base_url: http://localhost:9000
chains:
  arbitrum_rpc_url: https://arb.example
  arbitrum_sepolia_rpc_url: https://arb-sepolia.example
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	if cfg.Server.Listen != ":8787" {
		t.Fatalf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Exchange.MainnetURL != "https://api.hyperliquid.xyz" {
		t.Fatalf("mainnet url = %q", cfg.Exchange.MainnetURL)
	}
	if cfg.Exchange.TestnetURL != "https://api.hyperliquid-testnet.xyz" {
		t.Fatalf("testnet url = %q", cfg.Exchange.TestnetURL)
	}
	if cfg.Exchange.Timeout != 10*time.Second {
		t.Fatalf("exchange timeout = %v", cfg.Exchange.Timeout)
	}
	if cfg.Gateway.Timeout != 5*time.Second {
		t.Fatalf("gateway timeout = %v", cfg.Gateway.Timeout)
	}
	if cfg.Recorder.Backend != "sqlite" || cfg.Recorder.SQLitePath == "" {
		t.Fatalf("recorder = %+v", cfg.Recorder)
	}
	if cfg.Builder.MaxFeeRate != "0.1%" {
		t.Fatalf("max fee rate = %q", cfg.Builder.MaxFeeRate)
	}
}

func TestLoadRequiresGatewayURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
chains:
  arbitrum_rpc_url: https://arb.example
  arbitrum_sepolia_rpc_url: https://arb-sepolia.example
`))
	if err == nil || !strings.Contains(err.Error(), "gateway.base_url") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRequiresChainRPCs(t *testing.T) {
	_, err := Load(writeConfig(t, `
gateway:
  base_url: http://localhost:9000
`))
	if err == nil || !strings.Contains(err.Error(), "arbitrum_rpc_url") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsUnknownRecorderBackend(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
recorder:
  backend: redis
`))
	if err == nil || !strings.Contains(err.Error(), "recorder.backend") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
recorder:
  backend: postgres
`))
	if err == nil || !strings.Contains(err.Error(), "postgres_dsn") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRICE_GATEWAY_URL", "http://gateway.override")
	t.Setenv("ARBITRUM_RPC_URL", "https://arb.override")
	t.Setenv("ARBITRUM_SEPOLIA_RPC_URL", "https://arb-sepolia.override")
	t.Setenv("HL_BUILDER_ADDRESS", "0x1ab189B7801140900C711E458212F9c76F8dAC79")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://gateway.override" {
		t.Fatalf("gateway url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Chains.ArbitrumRPCURL != "https://arb.override" {
		t.Fatalf("arbitrum rpc = %q", cfg.Chains.ArbitrumRPCURL)
	}
	if cfg.Chains.ArbitrumSepoliaRPCURL != "https://arb-sepolia.override" {
		t.Fatalf("sepolia rpc = %q", cfg.Chains.ArbitrumSepoliaRPCURL)
	}
	if cfg.Builder.Address != "0x1ab189B7801140900C711E458212F9c76F8dAC79" {
		t.Fatalf("builder = %q", cfg.Builder.Address)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
