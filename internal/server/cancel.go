package server

import (
	"strconv"

	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/pricing"
	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cancelRequest struct {
	OID         *int64 `json:"oid" binding:"omitempty,gte=0"`
	Cloid       string `json:"cloid" binding:"omitempty,cloid"`
	Symbol      string `json:"symbol"`
	Environment string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

// Cancel cancels one order by oid or cloid. Cloid wins when both are
// supplied.
func (h *Handlers) Cancel() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "order"
		h.metrics.ActionAttempt(action)
		var req cancelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}
		if req.Symbol == "" {
			req.Symbol = "BTC-USD"
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()

		// oid 0 never identifies a live order and counts as absent.
		if req.Cloid == "" && (req.OID == nil || *req.OID == 0) {
			h.record(ctx, recorder.Record{
				Ref:           "",
				Status:        recorder.StatusRejected,
				WalletAddress: wctx.Address.Hex(),
				Action:        action,
				Network:       chain.Network,
				Metadata: gin.H{
					"symbol":      req.Symbol,
					"environment": string(chain.Env),
					"reason":      "oid or cloid is required",
				},
			})
			h.respondError(c, action, &PreconditionError{Msg: "oid or cloid is required"})
			return
		}

		asset, err := h.info(chain).AssetIndex(ctx, pricing.BaseAsset(req.Symbol))
		if err != nil {
			h.respondError(c, action, err)
			return
		}

		var (
			result map[string]any
			ref    string
		)
		if req.Cloid != "" {
			ref = req.Cloid
			result, err = ex.CancelOrdersByCloid(ctx, []exchange.CancelByCloidWire{{Asset: asset, Cloid: req.Cloid}})
		} else {
			ref = strconv.FormatInt(*req.OID, 10)
			result, err = ex.CancelOrders(ctx, []exchange.CancelWire{{Asset: asset, OrderID: *req.OID}})
		}

		status := recorder.StatusCancelled
		metadata := gin.H{
			"symbol":      req.Symbol,
			"cancelled":   ref,
			"environment": string(chain.Env),
		}
		if err != nil {
			status = recorder.StatusFailed
			metadata["error"] = err.Error()
		}
		h.record(ctx, recorder.Record{
			Ref:           ref,
			Status:        status,
			WalletAddress: wctx.Address.Hex(),
			Action:        action,
			Network:       chain.Network,
			Metadata:      metadata,
		})

		if err != nil {
			h.respondError(c, action, err)
			return
		}
		h.log.Info("order cancelled",
			zap.String("symbol", req.Symbol),
			zap.String("ref", ref),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{"result": result})
	}
}
