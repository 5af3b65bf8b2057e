package server

import (
	"fmt"
	"sync"
	"time"

	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Environment string   `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
	SubAccounts []string `json:"subAccounts" binding:"omitempty,dive,eth_addr"`
}

type statusSnapshot struct {
	WalletAddress string         `json:"walletAddress"`
	Clearinghouse map[string]any `json:"clearinghouse"`
}

// Status fetches clearinghouse snapshots for the primary wallet and any
// requested sub-accounts. Snapshots are fetched concurrently but reported
// in request order; any single failure fails the whole request.
func (h *Handlers) Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "status"
		h.metrics.ActionAttempt(action)
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}

		wctx, _, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()
		infoClient := h.info(chain)

		addresses := append([]string{wctx.Address.Hex()}, req.SubAccounts...)
		snapshots := make([]statusSnapshot, len(addresses))
		errs := make([]error, len(addresses))
		var wg sync.WaitGroup
		for i, addr := range addresses {
			wg.Add(1)
			go func(idx int, address string) {
				defer wg.Done()
				state, err := infoClient.ClearinghouseState(ctx, address)
				if err != nil {
					errs[idx] = fmt.Errorf("clearinghouse state for %s: %w", address, err)
					return
				}
				snapshots[idx] = statusSnapshot{WalletAddress: address, Clearinghouse: state}
			}(i, addr)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				h.respondError(c, action, err)
				return
			}
		}

		h.record(ctx, recorder.Record{
			Ref:           fmt.Sprintf("status-%d", time.Now().UnixMilli()),
			Status:        recorder.StatusSubmitted,
			WalletAddress: wctx.Address.Hex(),
			Action:        action,
			Network:       chain.Network,
			Metadata: gin.H{
				"environment": string(chain.Env),
				"snapshots":   snapshots,
			},
		})

		respondOK(c, gin.H{
			"environment":   string(chain.Env),
			"walletAddress": wctx.Address.Hex(),
			"snapshots":     snapshots,
		})
	}
}
