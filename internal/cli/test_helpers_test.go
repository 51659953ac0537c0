package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/storage"
)

// chicagoCSV: Sunday 2017-01-01, Monday 2017-01-02, Monday 2017-03-06 (x2),
// Friday 2017-06-23.
const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:20:53,776,Canal St & Madison St,Clinton St & Washington Blvd,Subscriber,Male,1992.0
1,2017-01-02 09:10:00,2017-01-02 09:30:00,1200,Canal St & Madison St,Streeter Dr & Grand Ave,Customer,,
2,2017-03-06 17:00:00,2017-03-06 17:06:00,360,Streeter Dr & Grand Ave,Canal St & Madison St,Subscriber,Female,1985.0
3,2017-03-06 17:30:00,2017-03-06 17:40:00,600,Canal St & Madison St,Clinton St & Washington Blvd,Subscriber,Male,1992.0
4,2017-06-23 08:00:00,2017-06-23 08:30:00,1800,Clinton St & Washington Blvd,Canal St & Madison St,Customer,Female,1970.0
`

const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
0,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
1,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
2,2017-05-30 01:02:59,2017-05-30 01:13:37,637.251,17th St & Massachusetts Ave NW,5th & K St NW,Customer
`

func init() {
	color.NoColor = true
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// writeDataDir writes the chicago and washington fixtures; new york city is
// left missing.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "washington.csv"), []byte(washingtonCSV), 0644))
	return dir
}

// setupRuntime builds a runtime over the fixtures with an in-memory cache.
// Output goes to the returned buffer.
func setupRuntime(t *testing.T) (*runtime, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.Dir = writeDataDir(t)

	store, db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)

	var buf bytes.Buffer
	rt := &runtime{cfg: cfg, store: store, db: db, out: &buf}
	require.NoError(t, rt.init())
	t.Cleanup(func() { rt.Close() })
	return rt, &buf
}

// writeConfig writes a config file pointing at the fixtures and returns its path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := writeDataDir(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "data:\n  dir: " + dir + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
