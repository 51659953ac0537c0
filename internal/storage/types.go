package storage

import "time"

// CachedDataset describes one cached snapshot without its rows.
type CachedDataset struct {
	City     string
	Source   string
	Size     int64
	ModTime  time.Time
	Columns  []string
	RowCount int64
	CachedAt time.Time
}

// Stats holds aggregate statistics about the cache database.
type Stats struct {
	Datasets  int64
	TotalRows int64
}
