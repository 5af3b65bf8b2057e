package server

import (
	"time"

	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/orders"
	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type entryRequest struct {
	Symbol       string `json:"symbol" binding:"required"`
	Side         string `json:"side" binding:"required,oneof=buy sell"`
	Type         string `json:"type" binding:"omitempty,oneof=market limit"`
	Price        string `json:"price" binding:"omitempty,decimal"`
	Size         string `json:"size" binding:"required,decimal"`
	Tif          string `json:"tif" binding:"omitempty,oneof=FrontendMarket Ioc Gtc Alo"`
	Leverage     int    `json:"leverage" binding:"omitempty,gt=0,lte=100"`
	LeverageMode string `json:"leverageMode" binding:"omitempty,oneof=cross isolated"`
	TakeProfitPx string `json:"takeProfitPx" binding:"omitempty,decimal"`
	StopLossPx   string `json:"stopLossPx" binding:"omitempty,decimal"`
	ReduceOnly   bool   `json:"reduceOnly"`
	Environment  string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

// Entry places a market or limit order with optional leverage update and
// TP/SL trigger batch.
func (h *Handlers) Entry() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "order"
		h.metrics.ActionAttempt(action)
		var req entryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}
		if req.Type == "" {
			req.Type = "market"
		}
		if req.LeverageMode == "" {
			req.LeverageMode = "cross"
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain

		orch := orders.NewOrchestrator(ex, h.info(chain), h.prices, h.log)
		ctx := c.Request.Context()
		result, execErr := orch.Execute(ctx, orders.EntryRequest{
			Symbol:       req.Symbol,
			Side:         orders.Side(req.Side),
			Kind:         orders.OrderKind(req.Type),
			Price:        req.Price,
			Size:         req.Size,
			Tif:          exchange.Tif(req.Tif),
			Leverage:     req.Leverage,
			LeverageMode: req.LeverageMode,
			TakeProfitPx: req.TakeProfitPx,
			StopLossPx:   req.StopLossPx,
			ReduceOnly:   req.ReduceOnly,
		})

		ref := ""
		status := recorder.StatusSubmitted
		entryPrice := req.Price
		metadata := gin.H{
			"symbol":       req.Symbol,
			"side":         req.Side,
			"type":         req.Type,
			"size":         req.Size,
			"leverage":     req.Leverage,
			"leverageMode": req.LeverageMode,
			"reduceOnly":   req.ReduceOnly,
			"takeProfitPx": req.TakeProfitPx,
			"stopLossPx":   req.StopLossPx,
			"environment":  string(chain.Env),
		}
		if execErr != nil {
			status = recorder.StatusFailed
			ref = orders.FallbackRef(req.Symbol, time.Now())
			metadata["error"] = execErr.Error()
		} else {
			ref = result.Ref
			entryPrice = result.EntryPrice
			metadata["entryResponse"] = result.Entry
			metadata["tpSlResponse"] = result.TpSl
		}
		metadata["price"] = entryPrice
		h.record(ctx, recorder.Record{
			Ref:           ref,
			Status:        status,
			WalletAddress: wctx.Address.Hex(),
			Action:        action,
			Notional:      req.Size,
			Network:       chain.Network,
			Metadata:      metadata,
		})

		if execErr != nil {
			h.respondError(c, action, execErr)
			return
		}
		h.log.Info("entry placed",
			zap.String("symbol", req.Symbol),
			zap.String("side", req.Side),
			zap.String("ref", ref),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{
			"environment": string(chain.Env),
			"ref":         ref,
			"entry":       result.Entry,
			"tpSl":        result.TpSl,
		})
	}
}
