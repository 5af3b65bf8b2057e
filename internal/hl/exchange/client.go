package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Client submits signed actions to one exchange endpoint on behalf of one
// signer. Nonces are monotonic milliseconds scoped to the client, which is
// why callers build a fresh client per request context.
type Client struct {
	baseURL   string
	http      *http.Client
	signer    *Signer
	lastNonce atomic.Uint64
	log       *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, signer *Signer) (*Client, error) {
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		signer: signer,
	}, nil
}

func (c *Client) SetLogger(log *zap.Logger) {
	c.log = log
}

func (c *Client) PlaceOrders(ctx context.Context, orders []OrderWire, grouping string) (map[string]any, error) {
	if grouping == "" {
		grouping = GroupingNA
	}
	action := OrderAction{Type: "order", Orders: orders, Grouping: grouping}
	payload, err := EncodeOrderAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) CancelOrders(ctx context.Context, cancels []CancelWire) (map[string]any, error) {
	action := CancelAction{Type: "cancel", Cancels: cancels}
	payload, err := EncodeCancelAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) CancelOrdersByCloid(ctx context.Context, cancels []CancelByCloidWire) (map[string]any, error) {
	action := CancelByCloidAction{Type: "cancelByCloid", Cancels: cancels}
	payload, err := EncodeCancelByCloidAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) UpdateLeverage(ctx context.Context, asset int, isCross bool, leverage int) (map[string]any, error) {
	if leverage <= 0 {
		return nil, errors.New("leverage must be > 0")
	}
	action := UpdateLeverageAction{Type: "updateLeverage", Asset: asset, IsCross: isCross, Leverage: leverage}
	payload, err := EncodeUpdateLeverageAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) CreateSubAccount(ctx context.Context, name string) (map[string]any, error) {
	action := CreateSubAccountAction{Type: "createSubAccount", Name: name}
	payload, err := EncodeCreateSubAccountAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

// SubAccountTransfer moves usdMicro micro-dollars between the signer's
// master account and subAccountUser.
func (c *Client) SubAccountTransfer(ctx context.Context, subAccountUser string, isDeposit bool, usdMicro int64) (map[string]any, error) {
	if usdMicro <= 0 {
		return nil, errors.New("transfer amount must be > 0")
	}
	action := SubAccountTransferAction{
		Type:           "subAccountTransfer",
		SubAccountUser: subAccountUser,
		IsDeposit:      isDeposit,
		USD:            usdMicro,
	}
	payload, err := EncodeSubAccountTransferAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) SetPortfolioMargin(ctx context.Context, user string, enabled bool) (map[string]any, error) {
	action := SetPortfolioMarginAction{Type: "setPortfolioMargin", User: user, Enabled: enabled}
	payload, err := EncodeSetPortfolioMarginAction(action)
	if err != nil {
		return nil, err
	}
	return c.postL1Action(ctx, action, payload)
}

func (c *Client) ApproveBuilderFee(ctx context.Context, builder, maxFeeRate string) (map[string]any, error) {
	if builder == "" {
		return nil, errors.New("builder address is required")
	}
	if maxFeeRate == "" {
		return nil, errors.New("max fee rate is required")
	}
	action := ApproveBuilderFeeAction{
		Type:       "approveBuilderFee",
		MaxFeeRate: maxFeeRate,
		Builder:    builder,
		Nonce:      c.nextNonce(),
	}
	sig, err := c.signer.SignApproveBuilderFee(&action)
	if err != nil {
		return nil, err
	}
	return c.postSigned(ctx, action, sig, action.Nonce)
}

func (c *Client) Address() string {
	return c.signer.Address().Hex()
}

func (c *Client) postL1Action(ctx context.Context, action any, payload []byte) (map[string]any, error) {
	nonce := c.nextNonce()
	sig, err := c.signer.SignL1Action(payload, nonce, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.postSigned(ctx, action, sig, nonce)
}

func (c *Client) nextNonce() uint64 {
	now := uint64(time.Now().UnixMilli())
	for {
		prev := c.lastNonce.Load()
		next := now
		if prev >= next {
			next = prev + 1
		}
		if c.lastNonce.CompareAndSwap(prev, next) {
			return next
		}
	}
}

func (c *Client) postSigned(ctx context.Context, action any, sig Signature, nonce uint64) (map[string]any, error) {
	payload := SignedAction{
		Action:    action,
		Nonce:     nonce,
		Signature: sig,
	}
	return c.post(ctx, "/exchange", payload)
}

func (c *Client) post(ctx context.Context, path string, req any) (map[string]any, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(raw), Response: string(raw)}
	}
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if status, _ := data["status"].(string); status == "err" {
		msg, _ := data["response"].(string)
		if c.log != nil {
			c.log.Warn("exchange rejected action", zap.String("response", msg))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Response: data["response"]}
	}
	return data, nil
}
