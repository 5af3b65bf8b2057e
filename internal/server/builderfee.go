package server

import (
	"fmt"
	"time"

	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type builderFeeRequest struct {
	Environment string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

// ApproveBuilderFee signs and submits a max-fee approval for the
// configured builder address.
func (h *Handlers) ApproveBuilderFee() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "builder-approval"
		h.metrics.ActionAttempt(action)
		var req builderFeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}

		if h.builder.Address == "" {
			h.respondError(c, action, &ConfigError{Msg: "builder address is not configured"})
			return
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()

		approval, execErr := ex.ApproveBuilderFee(ctx, h.builder.Address, h.builder.MaxFeeRate)

		status := recorder.StatusSubmitted
		metadata := gin.H{
			"environment": string(chain.Env),
			"builder":     h.builder.Address,
			"maxFeeRate":  h.builder.MaxFeeRate,
		}
		if execErr != nil {
			status = recorder.StatusFailed
			metadata["error"] = execErr.Error()
		} else {
			metadata["approval"] = approval
		}
		h.record(ctx, recorder.Record{
			Ref:           fmt.Sprintf("%s-builder-%d", chain.Env, time.Now().UnixMilli()),
			Status:        status,
			WalletAddress: wctx.Address.Hex(),
			Action:        action,
			Network:       chain.Network,
			Metadata:      metadata,
		})

		if execErr != nil {
			h.respondError(c, action, execErr)
			return
		}
		h.log.Info("builder fee approved",
			zap.String("builder", h.builder.Address),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{
			"environment":   string(chain.Env),
			"walletAddress": wctx.Address.Hex(),
			"approval":      approval,
		})
	}
}
