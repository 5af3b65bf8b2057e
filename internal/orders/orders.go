package orders

import (
	"encoding/hex"

	"hl-action-server/internal/hl/exchange"

	"github.com/google/uuid"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderKind string

const (
	KindMarket OrderKind = "market"
	KindLimit  OrderKind = "limit"
)

// EntryRequest is the domain form of an entry: validated fields, decimal
// strings for price-like values.
type EntryRequest struct {
	Symbol       string
	Side         Side
	Kind         OrderKind
	Price        string
	Size         string
	Tif          exchange.Tif
	Leverage     int
	LeverageMode string
	TakeProfitPx string
	StopLossPx   string
	ReduceOnly   bool
}

// EntryResult carries everything the handler reports back: the reference
// for the action record and the raw exchange responses.
type EntryResult struct {
	Ref        string
	EntryPrice string
	Entry      map[string]any
	TpSl       map[string]any
}

// NewCloid generates a client order id in the 128-bit hex form the
// exchange expects.
func NewCloid() string {
	u := uuid.New()
	return "0x" + hex.EncodeToString(u[:])
}
