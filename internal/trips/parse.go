package trips

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayouts are tried in order when parsing start times.
func DefaultTimeLayouts() []string {
	return []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
}

// ReadTable parses a CSV trip log from r.
func ReadTable(r io.Reader, layouts []string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rec, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrSourceUnavailable, err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrSourceUnavailable)
	}
	return BuildTable(rec[0], rec[1:], layouts)
}

// columnIndex holds header positions; -1 marks an absent column.
type columnIndex struct {
	startTime, startStation, endStation, duration, userType int
	gender, birthYear                                       int
}

func indexColumns(head []string) (columnIndex, error) {
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	var missing []string
	for _, col := range requiredColumns {
		if idx(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: missing columns %s", ErrSourceUnavailable, strings.Join(missing, ", "))
	}
	return columnIndex{
		startTime:    idx(ColStartTime),
		startStation: idx(ColStartStation),
		endStation:   idx(ColEndStation),
		duration:     idx(ColTripDuration),
		userType:     idx(ColUserType),
		gender:       idx(ColGender),
		birthYear:    idx(ColBirthYear),
	}, nil
}

// BuildTable turns a header and raw records into a Table, parsing and
// deriving every field. It stops at the first bad row.
func BuildTable(columns []string, records [][]string, layouts []string) (*Table, error) {
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts()
	}
	head := make([]string, len(columns))
	copy(head, columns)
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	ci, err := indexColumns(head)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Columns: head,
		Schema: Schema{
			HasGender:    ci.gender >= 0,
			HasBirthYear: ci.birthYear >= 0,
		},
		Trips: make([]Trip, 0, len(records)),
	}
	for i, row := range records {
		trip, err := parseTrip(i, pad(row, len(head)), head, ci, layouts)
		if err != nil {
			return nil, err
		}
		t.Trips = append(t.Trips, trip)
	}
	return t, nil
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func parseTrip(i int, row, head []string, ci columnIndex, layouts []string) (Trip, error) {
	cell := func(pos int) string {
		if pos < 0 {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	start, err := parseTimestamp(cell(ci.startTime), layouts)
	if err != nil {
		return Trip{}, &RowError{Row: i, Column: head[ci.startTime], Value: cell(ci.startTime), Err: ErrMalformedTimestamp}
	}

	dur, err := parseDuration(cell(ci.duration))
	if err != nil {
		return Trip{}, &RowError{Row: i, Column: head[ci.duration], Value: cell(ci.duration), Err: fmt.Errorf("%w: %v", ErrSourceUnavailable, err)}
	}

	trip := Trip{
		StartTime:    start,
		StartStation: cell(ci.startStation),
		EndStation:   cell(ci.endStation),
		Duration:     dur,
		UserType:     cell(ci.userType),
		Gender:       cell(ci.gender),
		Month:        start.Month().String(),
		Weekday:      start.Weekday().String(),
		Hour:         start.Hour(),
		Fields:       row,
	}

	if by := cell(ci.birthYear); by != "" {
		f, err := strconv.ParseFloat(by, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Trip{}, &RowError{Row: i, Column: head[ci.birthYear], Value: by, Err: fmt.Errorf("%w: invalid birth year", ErrSourceUnavailable)}
		}
		trip.BirthYear = int(math.Trunc(f))
		trip.BirthYearKnown = true
	}

	return trip, nil
}

// parseTimestamp tries each layout in turn. Values are read as naive local
// times; no zone conversion happens.
func parseTimestamp(s string, layouts []string) (time.Time, error) {
	for _, f := range layouts {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %q", s)
}

func parseDuration(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty trip duration")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trip duration: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("invalid trip duration %v", f)
	}
	return f, nil
}
