package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"hl-action-server/internal/config"
	"hl-action-server/internal/logging"
	"hl-action-server/internal/recorder"
	"hl-action-server/internal/recorder/postgres"
	"hl-action-server/internal/recorder/sqlite"
	"hl-action-server/internal/server"
	"hl-action-server/internal/wallet"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "internal/config/config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.String("path", *configPath))

	wallets, err := wallet.NewProvider(os.Getenv("HL_PRIVATE_KEY"))
	if err != nil {
		log.Error("failed to load signing key", zap.Error(err))
		os.Exit(1)
	}
	log.Info("wallet ready", zap.String("address", wallets.Address().Hex()))

	store, err := openRecorder(cfg.Recorder)
	if err != nil {
		log.Error("failed to open action recorder", zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, log, wallets, store)
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		log.Error("server terminated", zap.Error(err))
		os.Exit(1)
	}
}

func openRecorder(cfg config.RecorderConfig) (recorder.Store, error) {
	switch cfg.Backend {
	case "postgres":
		return postgres.New(cfg.PostgresDSN)
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return sqlite.New(cfg.SQLitePath)
	}
}
