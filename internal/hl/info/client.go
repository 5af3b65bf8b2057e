package info

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client queries the exchange /info endpoint. The perp universe rarely
// changes, so the coin→asset-index map is cached and refreshed only on a
// miss.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu     sync.Mutex
	assets map[string]int
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *Client) ClearinghouseState(ctx context.Context, user string) (map[string]any, error) {
	return c.post(ctx, map[string]any{"type": "clearinghouseState", "user": user})
}

// AssetIndex resolves a perp coin (e.g. "BTC") to its universe index.
func (c *Client) AssetIndex(ctx context.Context, coin string) (int, error) {
	c.mu.Lock()
	if idx, ok := c.assets[coin]; ok {
		c.mu.Unlock()
		return idx, nil
	}
	c.mu.Unlock()

	if err := c.refreshMeta(ctx); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.assets[coin]
	if !ok {
		return 0, fmt.Errorf("unknown asset %q", coin)
	}
	return idx, nil
}

func (c *Client) refreshMeta(ctx context.Context) error {
	meta, err := c.post(ctx, map[string]any{"type": "meta"})
	if err != nil {
		return fmt.Errorf("fetch meta: %w", err)
	}
	universe, _ := meta["universe"].([]any)
	if len(universe) == 0 {
		return fmt.Errorf("meta response has no universe")
	}
	assets := make(map[string]int, len(universe))
	for i, entry := range universe {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := m["name"].(string); ok && name != "" {
			assets[name] = i
		}
	}
	c.mu.Lock()
	c.assets = assets
	c.mu.Unlock()
	if c.log != nil {
		c.log.Debug("perp universe refreshed", zap.Int("assets", len(assets)))
	}
	return nil
}

func (c *Client) post(ctx context.Context, req any) (map[string]any, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/info"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
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
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
