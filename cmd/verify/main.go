package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"hl-action-server/internal/config"
	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/hl/info"
	"hl-action-server/internal/logging"

	"github.com/joho/godotenv"
)

const (
	defaultTestnetURL = "https://api.hyperliquid-testnet.xyz"
	defaultTimeout    = 10 * time.Second
)

// verify signs a sample order offline and prints the exact payload the
// server would submit. With -send it places the order on testnet, which
// is the cheapest end-to-end check of key, nonce, and encoding.
func main() {
	coin := flag.String("coin", "BTC", "coin to build the sample order for")
	size := flag.String("size", "0.001", "order size")
	price := flag.String("price", "1000", "limit price (deliberately far from market)")
	send := flag.Bool("send", false, "submit the signed order to testnet")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	privateKey := strings.TrimSpace(os.Getenv("HL_PRIVATE_KEY"))
	if privateKey == "" {
		fatal(errors.New("HL_PRIVATE_KEY is required"))
	}
	signer, err := exchange.NewSigner(privateKey, false)
	if err != nil {
		fatal(err)
	}
	if wallet := strings.TrimSpace(os.Getenv("HL_WALLET_ADDRESS")); wallet != "" {
		if !strings.EqualFold(wallet, signer.Address().Hex()) {
			fatal(fmt.Errorf("wallet address does not match private key: got %s expected %s", wallet, signer.Address().Hex()))
		}
	}
	fmt.Printf("signer address: %s\n", signer.Address().Hex())

	log := logging.New(config.LoggingConfig{Level: "info"})
	defer func() { _ = log.Sync() }()
	ctx := context.Background()

	asset := 0
	if *send {
		infoClient := info.New(defaultTestnetURL, defaultTimeout, log)
		asset, err = infoClient.AssetIndex(ctx, *coin)
		if err != nil {
			fatal(err)
		}
	}

	order, err := exchange.LimitOrderWire(asset, true, *size, *price, false, exchange.TifGtc, "")
	if err != nil {
		fatal(err)
	}
	action := exchange.OrderAction{Type: "order", Orders: []exchange.OrderWire{order}, Grouping: exchange.GroupingNA}
	payload, err := exchange.EncodeOrderAction(action)
	if err != nil {
		fatal(err)
	}
	nonce := uint64(time.Now().UnixMilli())
	sig, err := signer.SignL1Action(payload, nonce, nil, nil)
	if err != nil {
		fatal(err)
	}
	signed := exchange.SignedAction{Action: action, Nonce: nonce, Signature: sig}
	pretty, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Printf("signed payload:\n%s\n", string(pretty))

	if !*send {
		return
	}
	client, err := exchange.NewClient(defaultTestnetURL, defaultTimeout, signer)
	if err != nil {
		fatal(err)
	}
	client.SetLogger(log)
	resp, err := client.PlaceOrders(ctx, []exchange.OrderWire{order}, exchange.GroupingNA)
	if err != nil {
		fatal(err)
	}
	if ref := exchange.OrderRef(exchange.ParseOrderStatuses(resp)); ref != "" {
		fmt.Printf("exchange response: ref=%s\n", ref)
		return
	}
	fmt.Printf("exchange response: %v\n", resp)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
