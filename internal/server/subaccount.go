package server

import (
	"fmt"
	"time"

	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type createSubAccountRequest struct {
	Name        string `json:"name"`
	Environment string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

func (h *Handlers) CreateSubAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "subaccount-create"
		h.metrics.ActionAttempt(action)
		var req createSubAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}
		if req.Name == "" {
			req.Name = fmt.Sprintf("subaccount-%d", time.Now().UnixMilli())
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()

		result, execErr := ex.CreateSubAccount(ctx, req.Name)

		status := recorder.StatusSubmitted
		metadata := gin.H{
			"environment": string(chain.Env),
			"name":        req.Name,
		}
		if execErr != nil {
			status = recorder.StatusFailed
			metadata["error"] = execErr.Error()
		} else {
			metadata["result"] = result
		}
		h.record(ctx, recorder.Record{
			Ref:           fmt.Sprintf("%s-subaccount-%d", chain.Env, time.Now().UnixMilli()),
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
		h.log.Info("sub-account created",
			zap.String("name", req.Name),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{
			"environment": string(chain.Env),
			"name":        req.Name,
			"result":      result,
		})
	}
}

type transferSubAccountRequest struct {
	SubAccountUser string `json:"subAccountUser" binding:"required,eth_addr"`
	Amount         string `json:"amount" binding:"required,decimal"`
	Direction      string `json:"direction" binding:"omitempty,oneof=deposit withdraw"`
	Environment    string `json:"environment" binding:"omitempty,oneof=mainnet testnet"`
}

func (h *Handlers) TransferSubAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		const action = "subaccount-transfer"
		h.metrics.ActionAttempt(action)
		var req transferSubAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindError(c, action, err)
			return
		}
		if req.Direction == "" {
			req.Direction = "deposit"
		}

		usdMicro, err := usdToMicro(req.Amount)
		if err != nil {
			h.respondError(c, action, &ValidationError{Msg: err.Error()})
			return
		}

		wctx, ex, err := h.session(req.Environment)
		if err != nil {
			h.respondError(c, action, err)
			return
		}
		chain := wctx.Chain
		ctx := c.Request.Context()

		result, execErr := ex.SubAccountTransfer(ctx, req.SubAccountUser, req.Direction == "deposit", usdMicro)

		status := recorder.StatusSubmitted
		metadata := gin.H{
			"environment":    string(chain.Env),
			"subAccountUser": req.SubAccountUser,
			"direction":      req.Direction,
			"amount":         req.Amount,
		}
		if execErr != nil {
			status = recorder.StatusFailed
			metadata["error"] = execErr.Error()
		} else {
			metadata["result"] = result
		}
		h.record(ctx, recorder.Record{
			Ref:           fmt.Sprintf("%s-subaccount-transfer-%d", chain.Env, time.Now().UnixMilli()),
			Status:        status,
			WalletAddress: wctx.Address.Hex(),
			Action:        action,
			Notional:      req.Amount,
			Network:       chain.Network,
			Metadata:      metadata,
		})

		if execErr != nil {
			h.respondError(c, action, execErr)
			return
		}
		h.log.Info("sub-account transfer submitted",
			zap.String("subAccountUser", req.SubAccountUser),
			zap.String("direction", req.Direction),
			zap.String("amount", req.Amount),
			zap.String("environment", string(chain.Env)))
		respondOK(c, gin.H{
			"environment": string(chain.Env),
			"result":      result,
		})
	}
}

// usdToMicro converts a decimal USD amount to the integer micro-dollar
// wire unit. Amounts below one micro-dollar of precision are rejected
// rather than truncated.
func usdToMicro(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be > 0")
	}
	micro := d.Shift(6)
	if !micro.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-micro-dollar precision", amount)
	}
	return micro.IntPart(), nil
}
