package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/pricing"

	"go.uber.org/zap"
)

// ErrPriceRequired is the precondition failure for limit entries without
// an explicit price. It must surface before any exchange call is made.
var ErrPriceRequired = errors.New("price is required for limit orders")

// Exchange is the slice of the exchange client the orchestrator needs.
type Exchange interface {
	PlaceOrders(ctx context.Context, orders []exchange.OrderWire, grouping string) (map[string]any, error)
	UpdateLeverage(ctx context.Context, asset int, isCross bool, leverage int) (map[string]any, error)
}

type AssetResolver interface {
	AssetIndex(ctx context.Context, coin string) (int, error)
}

type PriceResolver interface {
	MarkPrice(ctx context.Context, symbol string) (string, error)
}

// Orchestrator runs the entry flow: optional leverage update, market
// price resolution, primary order, then the TP/SL trigger batch.
type Orchestrator struct {
	exchange Exchange
	assets   AssetResolver
	prices   PriceResolver
	log      *zap.Logger
}

func NewOrchestrator(ex Exchange, assets AssetResolver, prices PriceResolver, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{exchange: ex, assets: assets, prices: prices, log: log}
}

func (o *Orchestrator) Execute(ctx context.Context, req EntryRequest) (*EntryResult, error) {
	if req.Kind == KindLimit && req.Price == "" {
		return nil, ErrPriceRequired
	}

	coin := pricing.BaseAsset(req.Symbol)
	asset, err := o.assets.AssetIndex(ctx, coin)
	if err != nil {
		return nil, fmt.Errorf("resolve asset for %s: %w", req.Symbol, err)
	}

	if req.Leverage > 0 {
		isCross := req.LeverageMode != "isolated"
		if _, err := o.exchange.UpdateLeverage(ctx, asset, isCross, req.Leverage); err != nil {
			return nil, fmt.Errorf("update leverage: %w", err)
		}
		o.log.Info("leverage updated",
			zap.String("symbol", req.Symbol),
			zap.Int("leverage", req.Leverage),
			zap.Bool("cross", isCross))
	}

	entryPrice := req.Price
	if req.Kind == KindMarket {
		mark, err := o.prices.MarkPrice(ctx, req.Symbol)
		if err != nil {
			return nil, err
		}
		entryPrice = mark
	}

	primary, err := composePrimary(asset, req, entryPrice)
	if err != nil {
		return nil, err
	}
	entryResp, err := o.exchange.PlaceOrders(ctx, []exchange.OrderWire{primary}, exchange.GroupingNA)
	if err != nil {
		return nil, err
	}

	result := &EntryResult{
		EntryPrice: entryPrice,
		Entry:      entryResp,
	}
	result.Ref = exchange.OrderRef(exchange.ParseOrderStatuses(entryResp))
	if result.Ref == "" {
		result.Ref = FallbackRef(req.Symbol, time.Now())
	}

	triggers, err := composeTriggers(asset, req)
	if err != nil {
		return nil, err
	}
	if len(triggers) > 0 {
		tpSlResp, err := o.exchange.PlaceOrders(ctx, triggers, exchange.GroupingNormalTpSl)
		if err != nil {
			return nil, fmt.Errorf("place tp/sl orders: %w", err)
		}
		result.TpSl = tpSlResp
	}
	return result, nil
}

// FallbackRef is used when the exchange response carries no identifiers;
// records still need a unique-enough handle.
func FallbackRef(symbol string, now time.Time) string {
	return fmt.Sprintf("%s-%d", symbol, now.UnixMilli())
}
