package trips

import "time"

// Source column names.
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColTripDuration = "Trip Duration"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

// All is the selector that disables a filter dimension.
const All = "all"

// requiredColumns must be present in every source header.
var requiredColumns = []string{
	ColStartTime,
	ColStartStation,
	ColEndStation,
	ColTripDuration,
	ColUserType,
}

// Trip is a single row of a trip log plus the calendar fields derived from
// its start time.
type Trip struct {
	StartTime      time.Time
	StartStation   string
	EndStation     string
	Duration       float64 // seconds
	UserType       string
	Gender         string
	BirthYear      int
	BirthYearKnown bool

	// Derived from StartTime.
	Month   string
	Weekday string
	Hour    int

	// Fields holds the raw source cells in header order.
	Fields []string
}

// Schema records which optional columns the source carried.
type Schema struct {
	HasGender    bool `json:"has_gender"`
	HasBirthYear bool `json:"has_birth_year"`
}

// Table is an ordered collection of trips. Row order is source file order.
type Table struct {
	Columns []string
	Schema  Schema
	Trips   []Trip
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// derive returns a table with the same header and schema holding rows.
func (t *Table) derive(rows []Trip) *Table {
	return &Table{
		Columns: t.Columns,
		Schema:  t.Schema,
		Trips:   rows,
	}
}

// Selection is one user choice of dataset and time filter.
type Selection struct {
	City  string `json:"city"`
	Month string `json:"month"`
	Day   string `json:"day"`
}
