package server

import (
	"errors"
	"net/http"

	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/orders"
	"hl-action-server/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationError marks request-shape failures surfaced after binding,
// e.g. an unknown environment.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError marks requests that are well-formed but logically
// rejected before reaching the exchange.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// ConfigError marks actions that cannot run because the server is missing
// required configuration.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func respondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// respondError maps the error taxonomy onto HTTP statuses: validation and
// precondition failures are 400, configuration failures 500, exchange
// rejections 502 with the raw exchange response attached, upstream price
// failures 502, anything else 500.
func (h *Handlers) respondError(c *gin.Context, action string, err error) {
	status, body, reason := classify(err)
	h.metrics.ActionFailure(action, reason)
	c.JSON(status, body)
}

func classify(err error) (int, gin.H, string) {
	var apiErr *exchange.APIError
	if errors.As(err, &apiErr) {
		body := gin.H{"ok": false, "error": apiErr.Error()}
		if apiErr.Response != nil {
			body["exchangeResponse"] = apiErr.Response
		}
		return http.StatusBadGateway, body, "exchange"
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, gin.H{"ok": false, "error": validationErr.Msg}, "validation"
	}
	var preconditionErr *PreconditionError
	if errors.As(err, &preconditionErr) {
		return http.StatusBadRequest, gin.H{"ok": false, "error": preconditionErr.Msg}, "precondition"
	}
	if errors.Is(err, orders.ErrPriceRequired) {
		return http.StatusBadRequest, gin.H{"ok": false, "error": orders.ErrPriceRequired.Error()}, "precondition"
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return http.StatusInternalServerError, gin.H{"ok": false, "error": configErr.Msg}, "configuration"
	}
	if errors.Is(err, pricing.ErrPriceUnavailable) {
		return http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()}, "price_gateway"
	}
	return http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()}, "unknown"
}

// respondBindError reports request schema violations with per-field
// details when the validator produced them.
func (h *Handlers) respondBindError(c *gin.Context, action string, err error) {
	h.metrics.ActionFailure(action, "validation")
	body := gin.H{"ok": false, "error": err.Error()}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
		body["details"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}
