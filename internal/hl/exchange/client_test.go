package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNextNonceAtLeastNow(t *testing.T) {
	c := &Client{}
	start := uint64(time.Now().UnixMilli())
	nonce := c.nextNonce()
	if nonce < start {
		t.Fatalf("expected nonce >= %d, got %d", start, nonce)
	}
}

func TestNextNonceMonotonicWhenTimeDoesNotAdvance(t *testing.T) {
	c := &Client{}
	base := uint64(time.Now().UnixMilli()) + 86_400_000
	c.lastNonce.Store(base)
	if got := c.nextNonce(); got != base+1 {
		t.Fatalf("expected %d, got %d", base+1, got)
	}
	if got := c.nextNonce(); got != base+2 {
		t.Fatalf("expected %d, got %d", base+2, got)
	}
}

func TestNextNonceConcurrentUnique(t *testing.T) {
	c := &Client{}
	base := uint64(time.Now().UnixMilli()) + 86_400_000
	c.lastNonce.Store(base)

	const n = 128
	results := make([]uint64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx] = c.nextNonce()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, n)
	min := uint64(0)
	max := uint64(0)
	for i, nonce := range results {
		if _, ok := seen[nonce]; ok {
			t.Fatalf("duplicate nonce %d at index %d", nonce, i)
		}
		seen[nonce] = struct{}{}
		if min == 0 || nonce < min {
			min = nonce
		}
		if nonce > max {
			max = nonce
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d unique nonces, got %d", n, len(seen))
	}
	if min != base+1 || max != base+n {
		t.Fatalf("expected nonces in range [%d, %d], got [%d, %d]", base+1, base+n, min, max)
	}
}

func testSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner("4f3edf983ac636a65a842ce7c78d9aa706d3b113bce036f81af8f9b72d3d80b2", false)
	if err != nil {
		t.Fatalf("signer error: %v", err)
	}
	return signer
}

func TestPlaceOrdersPostsSignedAction(t *testing.T) {
	var captured SignedAction
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exchange" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Action    json.RawMessage `json:"action"`
			Nonce     uint64          `json:"nonce"`
			Signature Signature       `json:"signature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		captured.Nonce = body.Nonce
		captured.Signature = body.Signature
		var action map[string]any
		if err := json.Unmarshal(body.Action, &action); err != nil {
			t.Errorf("decode action: %v", err)
		}
		captured.Action = action
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","response":{"type":"order","data":{"statuses":[{"resting":{"oid":7}}]}}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second, testSigner(t))
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	order, err := LimitOrderWire(0, true, "0.1", "50000", false, TifIoc, "")
	if err != nil {
		t.Fatalf("order wire: %v", err)
	}
	resp, err := client.PlaceOrders(context.Background(), []OrderWire{order}, GroupingNA)
	if err != nil {
		t.Fatalf("place orders: %v", err)
	}
	if ref := OrderRef(ParseOrderStatuses(resp)); ref != "7" {
		t.Fatalf("expected ref 7, got %q", ref)
	}
	if captured.Nonce == 0 {
		t.Fatalf("expected nonce in payload")
	}
	if captured.Signature.R == "" || captured.Signature.S == "" {
		t.Fatalf("expected signature in payload")
	}
	action, ok := captured.Action.(map[string]any)
	if !ok || action["type"] != "order" {
		t.Fatalf("unexpected action payload: %v", captured.Action)
	}
	if action["grouping"] != GroupingNA {
		t.Fatalf("expected grouping na, got %v", action["grouping"])
	}
}

func TestPostReturnsAPIErrorOnErrStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"err","response":"Order must have minimum value of $10"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second, testSigner(t))
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	order, err := LimitOrderWire(0, true, "0.0001", "1", false, TifIoc, "")
	if err != nil {
		t.Fatalf("order wire: %v", err)
	}
	_, err = client.PlaceOrders(context.Background(), []OrderWire{order}, GroupingNA)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Order must have minimum value of $10" {
		t.Fatalf("unexpected message: %s", apiErr.Message)
	}
	if apiErr.Response != "Order must have minimum value of $10" {
		t.Fatalf("expected raw response preserved, got %v", apiErr.Response)
	}
}

func TestPostReturnsAPIErrorOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second, testSigner(t))
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	_, err = client.SetPortfolioMargin(context.Background(), "0x1234", true)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", apiErr.StatusCode)
	}
}

func TestCancelOrdersByCloidAction(t *testing.T) {
	var action map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		action, _ = body["action"].(map[string]any)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","response":{"type":"cancel","data":{"statuses":["success"]}}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second, testSigner(t))
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	_, err = client.CancelOrdersByCloid(context.Background(), []CancelByCloidWire{{Asset: 3, Cloid: "0xdef"}})
	if err != nil {
		t.Fatalf("cancel by cloid: %v", err)
	}
	if action["type"] != "cancelByCloid" {
		t.Fatalf("expected cancelByCloid action, got %v", action["type"])
	}
	cancels, ok := action["cancels"].([]any)
	if !ok || len(cancels) != 1 {
		t.Fatalf("expected 1 cancel, got %v", action["cancels"])
	}
	cancel := cancels[0].(map[string]any)
	if cancel["cloid"] != "0xdef" {
		t.Fatalf("expected cloid 0xdef, got %v", cancel["cloid"])
	}
}
