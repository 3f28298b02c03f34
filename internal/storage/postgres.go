package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ignite/phishing-trainer/internal/domain"
)

// PostgresStore keeps the snapshot as one JSONB row per campaign.
// Save is replace-all inside a transaction, preserving the gateway's
// whole-snapshot semantics while surviving process restarts better than
// a flat file on ephemeral disks.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle. The caller owns the
// handle and the driver registration (lib/pq in cmd/server).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the campaigns table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS phishing_campaigns (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Load reads every campaign row into a snapshot.
func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM phishing_campaigns`)
	if err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning campaign row: %w", err)
		}
		var c domain.Campaign
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing campaign %s: %w", id, err)
		}
		snap[id] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	return snap, nil
}

// Save replaces all campaign rows with the given snapshot atomically.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving campaigns: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM phishing_campaigns`); err != nil {
		return fmt.Errorf("saving campaigns: %w", err)
	}
	for id, c := range snap {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding campaign %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO phishing_campaigns (id, data, updated_at) VALUES ($1, $2, NOW())`,
			id, data); err != nil {
			return fmt.Errorf("saving campaign %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving campaigns: %w", err)
	}
	return nil
}
