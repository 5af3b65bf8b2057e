package server

import (
	"fmt"
	"time"

	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type portfolioMarginRequest struct {
	Enabled     *bool  `json:"enabled"`
	Environment string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

// PortfolioMargin toggles account unification mode for the configured
// wallet. Defaults to enabling it.
func (h *Handlers) PortfolioMargin() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "portfolio-margin"
		h.metrics.ActionAttempt(action)
		var req portfolioMarginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}
		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()

		result, execErr := ex.SetPortfolioMargin(ctx, wctx.Address.Hex(), enabled)

		status := recorder.StatusSubmitted
		metadata := gin.H{
			"environment": string(chain.Env),
			"enabled":     enabled,
			"user":        wctx.Address.Hex(),
		}
		if execErr != nil {
			status = recorder.StatusFailed
			metadata["error"] = execErr.Error()
		} else {
			metadata["result"] = result
		}
		h.record(ctx, recorder.Record{
			Ref:           fmt.Sprintf("portfolio-margin-%d", time.Now().UnixMilli()),
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
		h.log.Info("portfolio margin updated",
			zap.Bool("enabled", enabled),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{
			"environment": string(chain.Env),
			"enabled":     enabled,
			"result":      result,
		})
	}
}
