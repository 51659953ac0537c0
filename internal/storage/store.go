package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Store defines the dataset cache operations.
type Store interface {
	GetSnapshot(ctx context.Context, city string) (*trips.Snapshot, error)
	PutSnapshot(ctx context.Context, snap *trips.Snapshot) error
	DeleteSnapshot(ctx context.Context, city string) error
	ListDatasets(ctx context.Context) ([]CachedDataset, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

var _ trips.Cache = (*SQLiteStore)(nil)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getDataset    *sql.Stmt
	getRows       *sql.Stmt
	deleteDataset *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

// Open opens dsn with a single connection, so in-memory databases are
// shared by every statement, and applies migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, *sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	runner := NewMigrationRunner(db)
	if err := runner.Run(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	return store, db, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getDataset, err = s.db.Prepare(`
		SELECT city, source, size, mod_time, columns, row_count, cached_at
		FROM datasets WHERE city = ?
	`)
	if err != nil {
		return err
	}

	s.getRows, err = s.db.Prepare(`
		SELECT fields FROM trip_rows WHERE city = ? ORDER BY row_index
	`)
	if err != nil {
		return err
	}

	s.deleteDataset, err = s.db.Prepare(`DELETE FROM datasets WHERE city = ?`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// scanDataset reads one datasets row.
func scanDataset(row interface{ Scan(...any) error }) (*CachedDataset, error) {
	var d CachedDataset
	var modTime, columns, cachedAt string
	if err := row.Scan(&d.City, &d.Source, &d.Size, &modTime, &columns, &d.RowCount, &cachedAt); err != nil {
		return nil, err
	}
	var err error
	if d.ModTime, err = parseTimestamp(modTime); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", d.City, err)
	}
	d.CachedAt, _ = parseTimestamp(cachedAt)
	if err := json.Unmarshal([]byte(columns), &d.Columns); err != nil {
		return nil, fmt.Errorf("dataset %s: decode columns: %w", d.City, err)
	}
	return &d, nil
}

// GetSnapshot returns the cached snapshot for city, or nil when there is none.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, city string) (*trips.Snapshot, error) {
	d, err := scanDataset(s.getDataset.QueryRowContext(ctx, city))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	rows, err := s.getRows.QueryContext(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	records := make([][]string, 0, d.RowCount)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var fields []string
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(records), err)
		}
		records = append(records, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if int64(len(records)) != d.RowCount {
		return nil, fmt.Errorf("dataset %s: expected %d rows, found %d", city, d.RowCount, len(records))
	}

	return &trips.Snapshot{
		City:    d.City,
		Source:  d.Source,
		Size:    d.Size,
		ModTime: d.ModTime,
		Columns: d.Columns,
		Records: records,
	}, nil
}

// PutSnapshot replaces the cached snapshot for snap.City in a single transaction.
func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *trips.Snapshot) error {
	columns, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_rows WHERE city = ?", snap.City); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM datasets WHERE city = ?", snap.City); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (city, source, size, mod_time, columns, row_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.City, snap.Source, snap.Size, snap.ModTime.UTC().Format(time.RFC3339Nano),
		string(columns), len(snap.Records),
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	insertRow, err := tx.PrepareContext(ctx,
		"INSERT INTO trip_rows (city, row_index, fields) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer insertRow.Close()

	for i, rec := range snap.Records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := insertRow.ExecContext(ctx, snap.City, i, string(fields)); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// DeleteSnapshot removes a cached dataset. Rows are cascade-deleted by the schema.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, city string) error {
	res, err := s.deleteDataset.ExecContext(ctx, city)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dataset %s not cached", city)
	}
	return nil
}

// ListDatasets returns every cached dataset ordered by city.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]CachedDataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT city, source, size, mod_time, columns, row_count, cached_at
		FROM datasets ORDER BY city
	`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	out := []CachedDataset{}
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// PurgeAll deletes every cached dataset.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM trip_rows",
		"DELETE FROM datasets",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// GetStats returns aggregate statistics about the cache.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(row_count), 0) FROM datasets",
	).Scan(&stats.Datasets, &stats.TotalRows)
	if err != nil {
		return nil, fmt.Errorf("count datasets: %w", err)
	}
	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getDataset, s.getRows, s.deleteDataset}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
