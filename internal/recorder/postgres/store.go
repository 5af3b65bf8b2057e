package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"hl-action-server/internal/recorder"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const opTimeout = 3 * time.Second

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS actions (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		source TEXT NOT NULL,
		ref TEXT NOT NULL,
		status TEXT NOT NULL,
		wallet_address TEXT NOT NULL,
		action TEXT NOT NULL,
		notional TEXT NOT NULL DEFAULT '',
		network TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'
	)`)
	return err
}

func (s *Store) Record(ctx context.Context, rec recorder.Record) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return err
	}
	if rec.Metadata == nil {
		metadata = []byte("{}")
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO actions (created_at, source, ref, status, wallet_address, action, notional, network, metadata)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		created, rec.Source, rec.Ref, rec.Status, rec.WalletAddress, rec.Action,
		rec.Notional, rec.Network, string(metadata),
	)
	return err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]recorder.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	rows, err := s.db.QueryContext(ctx,
		`SELECT created_at, source, ref, status, wallet_address, action, notional, network, metadata
		 FROM actions ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []recorder.Record
	for rows.Next() {
		var rec recorder.Record
		var metadata []byte
		if err := rows.Scan(&rec.CreatedAt, &rec.Source, &rec.Ref, &rec.Status, &rec.WalletAddress,
			&rec.Action, &rec.Notional, &rec.Network, &metadata); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(metadata, &rec.Metadata)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
