package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetUserTypes = "User Types"
	SheetGender    = "Gender"
	SheetRows      = "Rows"
)

// WriteXLSX writes r and the filtered rows of t as an XLSX workbook.
func WriteXLSX(w io.Writer, r *Report, t *trips.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRows(f, SheetSummary, summaryRows(r)); err != nil {
		return err
	}

	if r.Users != nil {
		if err := writeCounts(f, SheetUserTypes, "User Type", r.Users.UserTypes); err != nil {
			return err
		}
		if r.Users.GenderAvailable {
			if err := writeCounts(f, SheetGender, "Gender", r.Users.Gender); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(SheetRows); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetRows, err)
	}
	rows := make([][]any, 0, t.Len()+1)
	rows = append(rows, stringsRow(t.Columns))
	for _, trip := range t.Trips {
		rows = append(rows, stringsRow(trip.Fields))
	}
	if err := writeRows(f, SheetRows, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summaryRows(r *Report) [][]any {
	rows := [][]any{
		{"City", r.Selection.City},
		{"Month", orAll(r.Selection.Month)},
		{"Day", orAll(r.Selection.Day)},
		{"Trips", r.Rows},
	}
	if t := r.Times; t != nil {
		rows = append(rows,
			[]any{"Most common month", t.Month},
			[]any{"Most common day", t.Weekday},
			[]any{"Most common start hour", t.Hour},
		)
	}
	if s := r.Stations; s != nil {
		rows = append(rows,
			[]any{"Most common start station", s.StartStation},
			[]any{"Most common end station", s.EndStation},
			[]any{"Most frequent trip", s.Route},
		)
	}
	if d := r.Durations; d != nil {
		rows = append(rows,
			[]any{"Total travel time (hours)", d.TotalHours},
			[]any{"Average travel time (hours)", d.MeanHours},
		)
	}
	if u := r.Users; u != nil {
		switch b := u.BirthYears; {
		case b == nil:
			rows = append(rows, []any{"Birth year", notAvailable})
		case b.Known > 0:
			rows = append(rows,
				[]any{"Earliest birth year", b.Earliest},
				[]any{"Most recent birth year", b.MostRecent},
				[]any{"Most common birth year", b.MostCommon},
			)
		}
		if !u.GenderAvailable {
			rows = append(rows, []any{"Gender", notAvailable})
		}
	}
	return rows
}

func writeCounts(f *excelize.File, sheet, header string, counts []trips.Count) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	rows := make([][]any, 0, len(counts)+1)
	rows = append(rows, []any{header, "Count"})
	for _, c := range counts {
		rows = append(rows, []any{c.Value, c.Count})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func stringsRow(fields []string) []any {
	row := make([]any, len(fields))
	for i, v := range fields {
		row[i] = v
	}
	return row
}
