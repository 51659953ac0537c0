package trips

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Snapshot is the raw content of one source file as handed to a Cache.
type Snapshot struct {
	City    string
	Source  string
	Size    int64
	ModTime time.Time
	Columns []string
	Records [][]string
}

// fresh reports whether s still describes the file behind info.
func (s *Snapshot) fresh(path string, info os.FileInfo) bool {
	return s != nil &&
		s.Source == path &&
		s.Size == info.Size() &&
		s.ModTime.Equal(info.ModTime())
}

// Cache keeps raw snapshots between loads. Get returns (nil, nil) on a miss.
type Cache interface {
	GetSnapshot(ctx context.Context, city string) (*Snapshot, error)
	PutSnapshot(ctx context.Context, snap *Snapshot) error
	DeleteSnapshot(ctx context.Context, city string) error
}

// Loader reads registered datasets into trip tables.
type Loader struct {
	registry *Registry
	layouts  []string
	cache    Cache
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLayouts sets the start time layouts.
func WithLayouts(layouts []string) Option {
	return func(l *Loader) {
		if len(layouts) > 0 {
			l.layouts = layouts
		}
	}
}

// WithCache enables snapshot caching.
func WithCache(c Cache) Option {
	return func(l *Loader) { l.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader over registry.
func NewLoader(registry *Registry, opts ...Option) *Loader {
	l := &Loader{
		registry: registry,
		layouts:  DefaultTimeLayouts(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the registry the loader resolves against.
func (l *Loader) Registry() *Registry { return l.registry }

// Load reads the dataset for cityKey, parses start times and derives the
// calendar fields. No filtering happens here.
func (l *Loader) Load(ctx context.Context, cityKey string) (*Table, error) {
	ds, err := l.registry.Lookup(cityKey)
	if err != nil {
		return nil, err
	}
	log := l.logger.With(slog.String("city", ds.Key), slog.String("path", ds.Path))
	start := time.Now()

	info, err := os.Stat(ds.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if snap := l.cached(ctx, log, ds, info); snap != nil {
		t, err := BuildTable(snap.Columns, snap.Records, l.layouts)
		if err == nil {
			log.Debug("dataset loaded from cache",
				slog.Int("rows", t.Len()),
				slog.Duration("elapsed", time.Since(start)))
			return t, nil
		}
		// A snapshot that no longer parses is dropped and the file reread.
		log.Warn("cached snapshot unusable", slog.String("error", err.Error()))
		if err := l.cache.DeleteSnapshot(ctx, ds.Key); err != nil {
			log.Warn("cache evict failed", slog.String("error", err.Error()))
		}
	}

	f, err := os.Open(ds.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	t, err := l.read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ds.Key, err)
	}

	if l.cache != nil {
		snap := &Snapshot{
			City:    ds.Key,
			Source:  ds.Path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Columns: t.Columns,
			Records: rawRecords(t),
		}
		if err := l.cache.PutSnapshot(ctx, snap); err != nil {
			log.Warn("cache store failed", slog.String("error", err.Error()))
		}
	}

	log.Debug("dataset loaded",
		slog.Int("rows", t.Len()),
		slog.Bool("gender", t.Schema.HasGender),
		slog.Bool("birth_year", t.Schema.HasBirthYear),
		slog.Duration("elapsed", time.Since(start)))
	return t, nil
}

func (l *Loader) read(r io.Reader) (*Table, error) {
	return ReadTable(r, l.layouts)
}

// cached returns a usable snapshot or nil. Cache errors never fail a load.
func (l *Loader) cached(ctx context.Context, log *slog.Logger, ds Dataset, info os.FileInfo) *Snapshot {
	if l.cache == nil {
		return nil
	}
	snap, err := l.cache.GetSnapshot(ctx, ds.Key)
	if err != nil {
		log.Warn("cache lookup failed", slog.String("error", err.Error()))
		return nil
	}
	if snap == nil {
		return nil
	}
	if !snap.fresh(ds.Path, info) {
		log.Debug("cache entry stale")
		return nil
	}
	return snap
}

func rawRecords(t *Table) [][]string {
	out := make([][]string, len(t.Trips))
	for i := range t.Trips {
		out[i] = t.Trips[i].Fields
	}
	return out
}
