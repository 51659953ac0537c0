package trips

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter keeps the rows of t whose month and weekday match the selectors.
// "all" disables a dimension. t is not modified; the result preserves row
// order and may be empty.
func Filter(t *Table, month, day string) *Table {
	wantMonth, byMonth := canonical(month)
	wantDay, byDay := canonical(day)

	if !byMonth && !byDay {
		rows := make([]Trip, len(t.Trips))
		copy(rows, t.Trips)
		return t.derive(rows)
	}

	rows := make([]Trip, 0, len(t.Trips))
	for _, trip := range t.Trips {
		if byMonth && trip.Month != wantMonth {
			continue
		}
		if byDay && trip.Weekday != wantDay {
			continue
		}
		rows = append(rows, trip)
	}
	return t.derive(rows)
}

// Apply filters t by the month and day of sel.
func Apply(t *Table, sel Selection) *Table {
	return Filter(t, sel.Month, sel.Day)
}

// canonical title-cases a selector. The bool is false for "all" or blank.
func canonical(sel string) (string, bool) {
	s := strings.TrimSpace(sel)
	if s == "" || strings.EqualFold(s, All) {
		return "", false
	}
	return cases.Title(language.English).String(strings.ToLower(s)), true
}
