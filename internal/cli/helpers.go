package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/logging"
	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/storage"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// runtime is everything a command needs once config is resolved.
type runtime struct {
	cfg      *config.Config
	log      *logging.Logger
	registry *trips.Registry
	loader   *trips.Loader
	store    *storage.SQLiteStore // nil when the cache is disabled
	db       *sql.DB
	out      io.Writer
}

// newRuntime resolves config and builds the logger. The dataset cache is
// opened only when withCache is set and the config enables it; commands that
// load each dataset once run without it.
func newRuntime(ctx context.Context, globals *GlobalFlags, withCache bool) (*runtime, error) {
	if globals == nil {
		globals = &GlobalFlags{}
	}
	cfg, err := config.Resolve(globals.Config)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, os.Stderr, globals.Verbose)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: logger, out: os.Stdout}
	if withCache && cfg.Cache.Enabled {
		store, db, err := storage.Open(ctx, cfg.Cache.DSN)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		rt.store, rt.db = store, db
	}

	if err := rt.init(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// init builds the registry and loader from cfg.
func (rt *runtime) init() error {
	reg, err := rt.cfg.Data.Registry()
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	rt.registry = reg

	opts := []trips.Option{trips.WithLayouts(rt.cfg.Data.TimeLayouts)}
	if rt.log != nil {
		opts = append(opts, trips.WithLogger(rt.log.Logger))
	}
	if rt.store != nil {
		opts = append(opts, trips.WithCache(rt.store))
	}
	rt.loader = trips.NewLoader(reg, opts...)
	return nil
}

// Close releases the cache and the log file.
func (rt *runtime) Close() error {
	if rt.store != nil {
		rt.store.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.log != nil {
		return rt.log.Close()
	}
	return nil
}

// logger returns the session logger, or a discarding one.
func (rt *runtime) logger() *slog.Logger {
	if rt.log == nil {
		return logging.Discard()
	}
	return rt.log.Logger
}

// fail records err with its category at debug level and returns it
// unchanged; the caller reports it to the user.
func (rt *runtime) fail(op string, err error) error {
	rt.logger().Debug(op+" failed",
		slog.String("code", string(trips.Classify(err))),
		slog.String("error", err.Error()))
	return err
}

// selected loads the selection's dataset and applies its filter.
func (rt *runtime) selected(ctx context.Context, sel trips.Selection) (*trips.Table, error) {
	tbl, err := rt.loader.Load(ctx, sel.City)
	if err != nil {
		return nil, err
	}
	filtered := trips.Apply(tbl, sel)
	rt.logger().Debug("selection applied",
		slog.String("city", sel.City),
		slog.String("month", sel.Month),
		slog.String("day", sel.Day),
		slog.Int("rows", filtered.Len()),
		slog.Int("of", tbl.Len()))
	return filtered, nil
}

// buildReport loads, filters and summarizes sel.
func (rt *runtime) buildReport(ctx context.Context, sel trips.Selection) (*report.Report, *trips.Table, error) {
	tbl, err := rt.selected(ctx, sel)
	if err != nil {
		return nil, nil, err
	}
	r, err := report.Build(sel, tbl)
	if err != nil {
		return nil, nil, err
	}
	return r, tbl, nil
}

// withRuntime resolves a runtime for a command's Execute and closes it afterwards.
func withRuntime(globals *GlobalFlags, withCache bool, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx, globals, withCache)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	remainder := len(s) % 3
	if remainder > 0 {
		result = append(result, s[:remainder]...)
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result = append(result, ',')
		}
		result = append(result, s[i:i+3]...)
	}
	return string(result)
}
