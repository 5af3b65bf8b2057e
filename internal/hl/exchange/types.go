package exchange

type Tif string

const (
	TifAlo            Tif = "Alo"
	TifIoc            Tif = "Ioc"
	TifGtc            Tif = "Gtc"
	TifFrontendMarket Tif = "FrontendMarket"
)

const (
	GroupingNA           = "na"
	GroupingNormalTpSl   = "normalTpsl"
	GroupingPositionTpSl = "positionTpsl"
)

type LimitOrderType struct {
	Tif Tif `json:"tif"`
}

// TriggerOrderType places a stop/take-profit order that activates at
// TriggerPx. TpSl is "tp" or "sl".
type TriggerOrderType struct {
	IsMarket  bool   `json:"isMarket"`
	TriggerPx string `json:"triggerPx"`
	TpSl      string `json:"tpsl"`
}

// OrderTypeWire is a one-of: exactly one of Limit or Trigger is set.
type OrderTypeWire struct {
	Limit   *LimitOrderType   `json:"limit,omitempty"`
	Trigger *TriggerOrderType `json:"trigger,omitempty"`
}

type OrderWire struct {
	Asset      int           `json:"a"`
	IsBuy      bool          `json:"b"`
	Price      string        `json:"p"`
	Size       string        `json:"s"`
	ReduceOnly bool          `json:"r"`
	OrderType  OrderTypeWire `json:"t"`
	Cloid      string        `json:"c,omitempty"`
}

type OrderAction struct {
	Type     string      `json:"type"`
	Orders   []OrderWire `json:"orders"`
	Grouping string      `json:"grouping"`
	Builder  any         `json:"builder,omitempty"`
}

type CancelWire struct {
	Asset   int   `json:"a"`
	OrderID int64 `json:"o"`
}

type CancelAction struct {
	Type    string       `json:"type"`
	Cancels []CancelWire `json:"cancels"`
}

type CancelByCloidWire struct {
	Asset int    `json:"asset"`
	Cloid string `json:"cloid"`
}

type CancelByCloidAction struct {
	Type    string              `json:"type"`
	Cancels []CancelByCloidWire `json:"cancels"`
}

type UpdateLeverageAction struct {
	Type     string `json:"type"`
	Asset    int    `json:"asset"`
	IsCross  bool   `json:"isCross"`
	Leverage int    `json:"leverage"`
}

type CreateSubAccountAction struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// SubAccountTransferAction moves USD between the master account and a
// sub-account. USD is denominated in micro-dollars (1 USD = 1_000_000).
type SubAccountTransferAction struct {
	Type           string `json:"type"`
	SubAccountUser string `json:"subAccountUser"`
	IsDeposit      bool   `json:"isDeposit"`
	USD            int64  `json:"usd"`
}

type SetPortfolioMarginAction struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Enabled bool   `json:"enabled"`
}

// ApproveBuilderFeeAction is user-signed rather than L1-signed.
type ApproveBuilderFeeAction struct {
	Type             string `json:"type"`
	MaxFeeRate       string `json:"maxFeeRate"`
	Builder          string `json:"builder"`
	Nonce            uint64 `json:"nonce"`
	SignatureChainID string `json:"signatureChainId,omitempty"`
	HyperliquidChain string `json:"hyperliquidChain,omitempty"`
}

type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
	V int    `json:"v"`
}

type SignedAction struct {
	Action       any       `json:"action"`
	Nonce        uint64    `json:"nonce"`
	Signature    Signature `json:"signature"`
	VaultAddress *string   `json:"vaultAddress"`
	ExpiresAfter *uint64   `json:"expiresAfter"`
}
