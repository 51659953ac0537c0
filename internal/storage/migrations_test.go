package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner_FreshDB(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	expectedTables := []string{
		"datasets",
		"trip_rows",
		"schema_migrations",
	}
	for _, table := range expectedTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrationRunner_IndexesCreated(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run(context.Background()))

	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?", "idx_datasets_cached_at",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_datasets_cached_at", name)
}

func TestMigrationRunner_Idempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	ctx := context.Background()

	require.NoError(t, runner.Run(ctx))
	require.NoError(t, runner.Run(ctx))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrationRunner_Version(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	ctx := context.Background()

	require.NoError(t, runner.Run(ctx))
	v, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMigrationRunner_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, NewMigrationRunner(db).Run(context.Background()))

	var on int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)

	_, err := db.Exec("INSERT INTO trip_rows (city, row_index, fields) VALUES ('nowhere', 0, '[]')")
	assert.Error(t, err, "rows need a parent dataset")
}
