package config

import "github.com/runnerr0/bikeshare/internal/trips"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:         ".",
			TimeLayouts: trips.DefaultTimeLayouts(),
			Datasets:    DefaultDatasets(),
		},
		Filters: FiltersConfig{
			Months: DefaultMonths(),
			Days:   DefaultDays(),
		},
		Pager: PagerConfig{
			PageSize: trips.DefaultPageSize,
		},
		Cache: CacheConfig{
			Enabled: true,
			DSN:     ":memory:",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			File:   "",
		},
	}
}
