package exchange

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// LimitOrderWire builds a limit order from decimal strings, normalizing
// them to the canonical wire form (no trailing zeros, no exponent).
func LimitOrderWire(asset int, isBuy bool, size, price string, reduceOnly bool, tif Tif, cloid string) (OrderWire, error) {
	if tif == "" {
		return OrderWire{}, errors.New("tif is required")
	}
	priceWire, err := decimalToWire(price)
	if err != nil {
		return OrderWire{}, fmt.Errorf("price: %w", err)
	}
	sizeWire, err := decimalToWire(size)
	if err != nil {
		return OrderWire{}, fmt.Errorf("size: %w", err)
	}
	return OrderWire{
		Asset:      asset,
		IsBuy:      isBuy,
		Price:      priceWire,
		Size:       sizeWire,
		ReduceOnly: reduceOnly,
		OrderType:  OrderTypeWire{Limit: &LimitOrderType{Tif: tif}},
		Cloid:      cloid,
	}, nil
}

// TriggerOrderWire builds a tp/sl trigger order. The trigger price doubles
// as the limit price the exchange uses once the trigger fires.
func TriggerOrderWire(asset int, isBuy bool, size, triggerPx string, tpsl string, cloid string) (OrderWire, error) {
	if tpsl != "tp" && tpsl != "sl" {
		return OrderWire{}, fmt.Errorf("invalid tpsl %q", tpsl)
	}
	pxWire, err := decimalToWire(triggerPx)
	if err != nil {
		return OrderWire{}, fmt.Errorf("trigger price: %w", err)
	}
	sizeWire, err := decimalToWire(size)
	if err != nil {
		return OrderWire{}, fmt.Errorf("size: %w", err)
	}
	return OrderWire{
		Asset:      asset,
		IsBuy:      isBuy,
		Price:      pxWire,
		Size:       sizeWire,
		ReduceOnly: true,
		OrderType: OrderTypeWire{Trigger: &TriggerOrderType{
			IsMarket:  true,
			TriggerPx: pxWire,
			TpSl:      tpsl,
		}},
		Cloid: cloid,
	}, nil
}

func decimalToWire(value string) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", err
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("must be > 0, got %s", value)
	}
	return d.String(), nil
}
