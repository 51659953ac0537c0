package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates the dataset cache schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			city        TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			size        INTEGER NOT NULL DEFAULT 0,
			mod_time    TEXT NOT NULL,
			columns     TEXT NOT NULL,
			row_count   INTEGER NOT NULL DEFAULT 0,
			cached_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS trip_rows (
			city      TEXT NOT NULL REFERENCES datasets(city) ON DELETE CASCADE,
			row_index INTEGER NOT NULL,
			fields    TEXT NOT NULL,
			PRIMARY KEY (city, row_index)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_datasets_cached_at ON datasets(cached_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
