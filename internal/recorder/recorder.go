package recorder

import (
	"context"
	"time"
)

// Record is one row of the append-only action log. Every mutating request
// writes exactly one, whether the action succeeded or not.
type Record struct {
	Source        string         `json:"source"`
	Ref           string         `json:"ref"`
	Status        string         `json:"status"`
	WalletAddress string         `json:"walletAddress"`
	Action        string         `json:"action"`
	Notional      string         `json:"notional,omitempty"`
	Network       string         `json:"network"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

const (
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Store persists records. Implementations never update or delete rows.
type Store interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
