package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPriceUnavailable covers every way the gateway can fail to produce a
// usable mark price: transport errors, non-2xx statuses, and missing or
// non-positive values.
var ErrPriceUnavailable = errors.New("mark price unavailable")

// Resolver fetches mark prices from the internal price gateway. Market
// orders are converted to limit orders at this price.
type Resolver struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewResolver(baseURL string, timeout time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// MarkPrice returns the gateway mark price for the symbol's base asset as
// a canonical decimal string. "BTC-USD" queries the gateway for "BTC".
func (r *Resolver) MarkPrice(ctx context.Context, symbol string) (string, error) {
	if r.baseURL == "" {
		return "", errors.New("price gateway is not configured")
	}
	base := BaseAsset(symbol)
	reqURL := fmt.Sprintf("%s/v1/hyperliquid/market-stats?symbol=%s", r.baseURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if r.log != nil {
			r.log.Warn("price gateway error",
				zap.String("symbol", base),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(body)))
		}
		return "", fmt.Errorf("%w: gateway http %d", ErrPriceUnavailable, resp.StatusCode)
	}
	var stats struct {
		MarkPrice *float64 `json:"markPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrPriceUnavailable, err)
	}
	if stats.MarkPrice == nil {
		return "", fmt.Errorf("%w: no markPrice for %s", ErrPriceUnavailable, base)
	}
	mark := *stats.MarkPrice
	if math.IsNaN(mark) || math.IsInf(mark, 0) || mark <= 0 {
		return "", fmt.Errorf("%w: invalid markPrice %v for %s", ErrPriceUnavailable, mark, base)
	}
	return decimal.NewFromFloat(mark).String(), nil
}

// BaseAsset strips the quote part of a symbol: "BTC-USD" → "BTC". Symbols
// without a separator pass through unchanged.
func BaseAsset(symbol string) string {
	if i := strings.Index(symbol, "-"); i > 0 {
		return symbol[:i]
	}
	return symbol
}
