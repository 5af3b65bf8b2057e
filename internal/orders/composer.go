package orders

import (
	"hl-action-server/internal/hl/exchange"
)

// composePrimary builds the entry order. Market entries trade as
// FrontendMarket limit orders priced at the resolved mark; limit entries
// use the caller's tif, defaulting to Ioc.
func composePrimary(asset int, req EntryRequest, price string) (exchange.OrderWire, error) {
	tif := exchange.TifFrontendMarket
	if req.Kind == KindLimit {
		tif = req.Tif
		if tif == "" {
			tif = exchange.TifIoc
		}
	}
	return exchange.LimitOrderWire(asset, req.Side == SideBuy, req.Size, price, req.ReduceOnly, tif, NewCloid())
}

// composeTriggers builds the TP/SL batch: reduce-only market triggers on
// the opposite side, same size as the entry.
func composeTriggers(asset int, req EntryRequest) ([]exchange.OrderWire, error) {
	var triggers []exchange.OrderWire
	exitBuy := req.Side.Opposite() == SideBuy
	if req.TakeProfitPx != "" {
		tp, err := exchange.TriggerOrderWire(asset, exitBuy, req.Size, req.TakeProfitPx, "tp", NewCloid())
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, tp)
	}
	if req.StopLossPx != "" {
		sl, err := exchange.TriggerOrderWire(asset, exitBuy, req.Size, req.StopLossPx, "sl", NewCloid())
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, sl)
	}
	return triggers, nil
}
