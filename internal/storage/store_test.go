package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// openTestStore creates a migrated in-memory Store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run(context.Background()))

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testSnapshot(city string, rows int) *trips.Snapshot {
	snap := &trips.Snapshot{
		City:    city,
		Source:  "/data/" + city + ".csv",
		Size:    1024,
		ModTime: time.Date(2017, 7, 1, 12, 30, 0, 123456789, time.UTC),
		Columns: []string{"", "Start Time", "Start Station", "End Station", "Trip Duration", "User Type"},
	}
	for i := 0; i < rows; i++ {
		snap.Records = append(snap.Records, []string{
			"0", "2017-01-01 09:07:57", "Canal St, Madison St", "", "776", "Subscriber",
		})
	}
	return snap
}

// --- PutSnapshot + GetSnapshot roundtrip ---

func TestPutSnapshot_GetSnapshot_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := testSnapshot("chicago", 3)
	snap.Records[1][3] = "Streeter Dr & Grand Ave"
	require.NoError(t, store.PutSnapshot(ctx, snap))

	got, err := store.GetSnapshot(ctx, "chicago")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.City, got.City)
	assert.Equal(t, snap.Source, got.Source)
	assert.Equal(t, snap.Size, got.Size)
	assert.True(t, snap.ModTime.Equal(got.ModTime), "mod time should survive at full precision")
	assert.Equal(t, snap.Columns, got.Columns)
	assert.Equal(t, snap.Records, got.Records)
}

func TestGetSnapshot_Miss(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetSnapshot(context.Background(), "boston")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutSnapshot_Replaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 5)))
	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 2)))

	got, err := store.GetSnapshot(ctx, "chicago")
	require.NoError(t, err)
	assert.Len(t, got.Records, 2)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Datasets)
	assert.Equal(t, int64(2), stats.TotalRows)
}

func TestPutSnapshot_EmptyDataset(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("washington", 0)))

	got, err := store.GetSnapshot(ctx, "washington")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Records)
}

func TestPutSnapshot_PreservesRowOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := testSnapshot("chicago", 12)
	for i := range snap.Records {
		snap.Records[i][0] = string(rune('a' + i))
	}
	require.NoError(t, store.PutSnapshot(ctx, snap))

	got, err := store.GetSnapshot(ctx, "chicago")
	require.NoError(t, err)
	for i := range got.Records {
		assert.Equal(t, string(rune('a'+i)), got.Records[i][0])
	}
}

// --- DeleteSnapshot ---

func TestDeleteSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 3)))
	require.NoError(t, store.DeleteSnapshot(ctx, "chicago"))

	got, err := store.GetSnapshot(ctx, "chicago")
	require.NoError(t, err)
	assert.Nil(t, got)

	var rows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM trip_rows").Scan(&rows))
	assert.Equal(t, 0, rows, "rows should cascade with their dataset")
}

func TestDeleteSnapshot_NotCached(t *testing.T) {
	store := openTestStore(t)

	err := store.DeleteSnapshot(context.Background(), "boston")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not cached")
}

// --- ListDatasets ---

func TestListDatasets(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("washington", 1)))
	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 4)))

	list, err := store.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "chicago", list[0].City)
	assert.Equal(t, int64(4), list[0].RowCount)
	assert.Equal(t, "washington", list[1].City)
	assert.False(t, list[0].CachedAt.IsZero())
	assert.Len(t, list[0].Columns, 6)
}

// --- PurgeAll + GetStats ---

func TestPurgeAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 3)))
	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("washington", 2)))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Datasets)
	assert.Equal(t, int64(5), stats.TotalRows)

	require.NoError(t, store.PurgeAll(ctx))

	stats, err = store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Datasets)
	assert.Equal(t, int64(0), stats.TotalRows)
}

// --- Open ---

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()
	store, db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		db.Close()
	})

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot("chicago", 1)))
	got, err := store.GetSnapshot(ctx, "chicago")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

// --- parseTimestamp ---

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2017-07-01T12:30:00.5Z", time.Date(2017, 7, 1, 12, 30, 0, 500000000, time.UTC)},
		{"2017-07-01T12:30:00Z", time.Date(2017, 7, 1, 12, 30, 0, 0, time.UTC)},
		{"2017-07-01 12:30:00", time.Date(2017, 7, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}
