package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/runnerr0/bikeshare/internal/trips"
)

const (
	notAvailable = "Data not available for this city."
	noData       = "No data for this selection."
	rule         = "----------------------------------------"
)

var (
	heading = color.New(color.FgMagenta, color.Bold)
	label   = color.New(color.FgCyan, color.Bold)
	notice  = color.New(color.FgYellow)
)

// WriteText renders r for a terminal.
func WriteText(w io.Writer, r *Report) error {
	tw := &textWriter{w: w}

	month, day := r.Selection.Month, r.Selection.Day
	tw.heading("Statistics for %s (month: %s, day: %s), %d trips",
		r.Selection.City, orAll(month), orAll(day), r.Rows)

	tw.heading("Most Frequent Times of Travel")
	if t := r.Times; t != nil {
		tw.field("Most common month", t.Month)
		tw.field("Most common day", t.Weekday)
		tw.field("Most common start hour", strconv.Itoa(t.Hour))
	} else {
		tw.notice(noData)
	}
	tw.rule()

	tw.heading("Most Popular Stations and Trip")
	if s := r.Stations; s != nil {
		tw.field("Most common start station", s.StartStation)
		tw.field("Most common end station", s.EndStation)
		tw.field("Most frequent trip", s.Route)
	} else {
		tw.notice(noData)
	}
	tw.rule()

	tw.heading("Trip Duration")
	if d := r.Durations; d != nil {
		tw.field("Total travel time", fmt.Sprintf("%.2f hours", d.TotalHours))
		tw.field("Average travel time", fmt.Sprintf("%.2f hours", d.MeanHours))
	} else {
		tw.notice(noData)
	}
	tw.rule()

	tw.heading("User Stats")
	if u := r.Users; u != nil {
		tw.label("User types")
		tw.counts("User Type", u.UserTypes)

		if u.GenderAvailable {
			tw.label("Gender")
			tw.counts("Gender", u.Gender)
		} else {
			tw.field("Gender", notAvailable)
		}

		switch b := u.BirthYears; {
		case b == nil:
			tw.field("Birth year", notAvailable)
		case b.Known == 0:
			tw.field("Birth year", "No birth year recorded for this selection.")
		default:
			tw.field("Earliest birth year", strconv.Itoa(b.Earliest))
			tw.field("Most recent birth year", strconv.Itoa(b.MostRecent))
			tw.field("Most common birth year", strconv.Itoa(b.MostCommon))
		}
	} else {
		tw.notice(noData)
	}
	tw.rule()

	tw.printf("Computed in %.2f seconds.\n", r.Elapsed.Seconds())
	return tw.err
}

// WritePage renders one page of raw rows under the source header.
func WritePage(w io.Writer, columns []string, page trips.Page) error {
	if _, err := fmt.Fprintf(w, "Raw data, page %d (rows %d-%d):\n",
		page.Number, page.Offset+1, page.Offset+len(page.Rows)); err != nil {
		return err
	}
	table := newTable(w)
	table.SetHeader(columns)
	for _, trip := range page.Rows {
		row := make([]string, len(columns))
		copy(row, trip.Fields)
		table.Append(row)
	}
	table.Render()
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// textWriter keeps the first write error so rendering code stays linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) heading(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = heading.Fprintf(tw.w, "\n"+format+"\n\n", args...)
}

func (tw *textWriter) label(name string) {
	if tw.err != nil {
		return
	}
	_, tw.err = label.Fprintf(tw.w, "%s:\n", name)
}

func (tw *textWriter) field(name, value string) {
	if tw.err != nil {
		return
	}
	if _, tw.err = label.Fprintf(tw.w, "%s: ", name); tw.err != nil {
		return
	}
	tw.printf("%s\n", value)
}

func (tw *textWriter) notice(msg string) {
	if tw.err != nil {
		return
	}
	_, tw.err = notice.Fprintln(tw.w, msg)
}

func (tw *textWriter) rule() {
	tw.printf("%s\n", rule)
}

func (tw *textWriter) counts(header string, counts []trips.Count) {
	if tw.err != nil {
		return
	}
	table := newTable(tw.w)
	table.SetHeader([]string{header, "Count"})
	for _, c := range counts {
		table.Append([]string{c.Value, strconv.Itoa(c.Count)})
	}
	table.Render()
}

func orAll(s string) string {
	if strings.TrimSpace(s) == "" {
		return trips.All
	}
	return s
}
