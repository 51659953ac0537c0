// Package report assembles the statistics for one selection and renders
// them as text, JSON or an XLSX workbook.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Report is the full set of statistics for one filtered table. A nil
// section means the selection had no rows.
type Report struct {
	Selection trips.Selection      `json:"selection"`
	Rows      int                  `json:"rows"`
	Schema    trips.Schema         `json:"schema"`
	Times     *trips.TimeStats     `json:"times"`
	Stations  *trips.StationStats  `json:"stations"`
	Durations *trips.DurationStats `json:"durations"`
	Users     *trips.UserStats     `json:"users"`
	Elapsed   time.Duration        `json:"-"`
}

// Empty reports whether the selection matched no rows.
func (r *Report) Empty() bool { return r.Rows == 0 }

// Build computes every section over t. Empty input leaves sections nil;
// any other statistics error aborts.
func Build(sel trips.Selection, t *trips.Table) (*Report, error) {
	start := time.Now()
	r := &Report{Selection: sel, Rows: t.Len()}
	if t != nil {
		r.Schema = t.Schema
	}

	ts, err := trips.Times(t)
	if r.Times, err = section(&ts, err); err != nil {
		return nil, err
	}
	ss, err := trips.Stations(t)
	if r.Stations, err = section(&ss, err); err != nil {
		return nil, err
	}
	ds, err := trips.Durations(t)
	if r.Durations, err = section(&ds, err); err != nil {
		return nil, err
	}
	us, err := trips.Users(t)
	if r.Users, err = section(&us, err); err != nil {
		return nil, err
	}

	r.Elapsed = time.Since(start)
	return r, nil
}

func section[T any](v *T, err error) (*T, error) {
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, trips.ErrEmptyInput):
		return nil, nil
	default:
		return nil, fmt.Errorf("build report: %w", err)
	}
}
