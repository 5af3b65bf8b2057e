package server

import (
	"context"
	"time"

	"hl-action-server/internal/chains"
	"hl-action-server/internal/config"
	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/metrics"
	"hl-action-server/internal/recorder"
	"hl-action-server/internal/wallet"

	"go.uber.org/zap"
)

// Exchange is the handler-facing slice of the exchange client; a fresh
// instance is built per request for the resolved chain and signer.
type Exchange interface {
	PlaceOrders(ctx context.Context, orders []exchange.OrderWire, grouping string) (map[string]any, error)
	CancelOrders(ctx context.Context, cancels []exchange.CancelWire) (map[string]any, error)
	CancelOrdersByCloid(ctx context.Context, cancels []exchange.CancelByCloidWire) (map[string]any, error)
	UpdateLeverage(ctx context.Context, asset int, isCross bool, leverage int) (map[string]any, error)
	CreateSubAccount(ctx context.Context, name string) (map[string]any, error)
	SubAccountTransfer(ctx context.Context, subAccountUser string, isDeposit bool, usdMicro int64) (map[string]any, error)
	SetPortfolioMargin(ctx context.Context, user string, enabled bool) (map[string]any, error)
	ApproveBuilderFee(ctx context.Context, builder, maxFeeRate string) (map[string]any, error)
}

type Info interface {
	ClearinghouseState(ctx context.Context, user string) (map[string]any, error)
	AssetIndex(ctx context.Context, coin string) (int, error)
}

type PriceResolver interface {
	MarkPrice(ctx context.Context, symbol string) (string, error)
}

type ExchangeFactory func(chain chains.ChainConfig, signer *exchange.Signer) (Exchange, error)

type InfoFactory func(chain chains.ChainConfig) Info

type Handlers struct {
	resolver *chains.Resolver
	wallets  *wallet.Provider
	prices   PriceResolver
	store    recorder.Store
	metrics  metrics.Metrics
	log      *zap.Logger
	builder  config.BuilderConfig
	exchange ExchangeFactory
	info     InfoFactory
}

func NewHandlers(
	resolver *chains.Resolver,
	wallets *wallet.Provider,
	prices PriceResolver,
	store recorder.Store,
	m metrics.Metrics,
	log *zap.Logger,
	builder config.BuilderConfig,
	exchangeFactory ExchangeFactory,
	infoFactory InfoFactory,
) *Handlers {
	if m == nil {
		m = metrics.NewNoop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		resolver: resolver,
		wallets:  wallets,
		prices:   prices,
		store:    store,
		metrics:  m,
		log:      log,
		builder:  builder,
		exchange: exchangeFactory,
		info:     infoFactory,
	}
}

// session resolves the request environment into a wallet context and a
// chain-bound exchange client.
func (h *Handlers) session(env string) (*wallet.Context, Exchange, error) {
	chain, err := h.resolver.Resolve(chains.Environment(env))
	if err != nil {
		return nil, nil, &ValidationError{Msg: err.Error()}
	}
	wctx, err := h.wallets.Context(chain)
	if err != nil {
		return nil, nil, &ConfigError{Msg: "wallet context unavailable: " + err.Error()}
	}
	ex, err := h.exchange(chain, wctx.Signer)
	if err != nil {
		return nil, nil, &ConfigError{Msg: "exchange client unavailable: " + err.Error()}
	}
	return wctx, ex, nil
}

// record writes one row to the action log. Failures are logged and
// counted but never turn a completed action into an HTTP error.
func (h *Handlers) record(ctx context.Context, rec recorder.Record) {
	if h.store == nil {
		return
	}
	if rec.Source == "" {
		rec.Source = "hyperliquid"
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := h.store.Record(ctx, rec); err != nil {
		h.metrics.RecordFailure()
		h.log.Warn("action record failed",
			zap.String("action", rec.Action),
			zap.String("ref", rec.Ref),
			zap.Error(err))
	}
}
