package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"hl-action-server/internal/recorder"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		source TEXT NOT NULL,
		ref TEXT NOT NULL,
		status TEXT NOT NULL,
		wallet_address TEXT NOT NULL,
		action TEXT NOT NULL,
		notional TEXT NOT NULL DEFAULT '',
		network TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}'
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO actions (created_at, source, ref, status, wallet_address, action, notional, network, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.UTC().Format(time.RFC3339Nano),
		rec.Source, rec.Ref, rec.Status, rec.WalletAddress, rec.Action, rec.Notional, rec.Network,
		string(metadata),
	)
	return err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]recorder.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT created_at, source, ref, status, wallet_address, action, notional, network, metadata
		 FROM actions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []recorder.Record
	for rows.Next() {
		var rec recorder.Record
		var created, metadata string
		if err := rows.Scan(&created, &rec.Source, &rec.Ref, &rec.Status, &rec.WalletAddress,
			&rec.Action, &rec.Notional, &rec.Network, &metadata); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			rec.CreatedAt = ts
		}
		_ = json.Unmarshal([]byte(metadata), &rec.Metadata)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
