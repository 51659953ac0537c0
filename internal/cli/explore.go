package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/trips"
)

var (
	promptColor = color.New(color.FgBlue, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
	bannerColor = color.New(color.FgMagenta, color.Bold)
)

// Execute implements the go-flags Commander interface for ExploreCommand.
func (c *ExploreCommand) Execute(args []string) error {
	return withRuntime(c.globals, true, c.executeWithRuntime)
}

// executeWithRuntime runs the interactive loop against a provided runtime (for testing).
func (c *ExploreCommand) executeWithRuntime(ctx context.Context, rt *runtime) error {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	s := &session{
		rt:    rt,
		in:    bufio.NewScanner(in),
		out:   rt.out,
		menus: rt.menus(),
	}
	err := s.run(ctx)
	s.dropCache(ctx)
	return err
}

// session is one interactive exploration. Input ends cleanly on EOF.
type session struct {
	rt    *runtime
	in    *bufio.Scanner
	out   io.Writer
	menus menus
}

func (s *session) run(ctx context.Context) error {
	bannerColor.Fprintln(s.out, "\nWelcome! Let's explore US bike share data!")
	for {
		sel, err := s.promptSelection()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.analyze(ctx, sel); err != nil {
			if !isDataError(err) {
				return err
			}
			errorColor.Fprintf(s.out, "\n%v\n", err)
		}

		again, err := s.ask("\nWould you like to explore more data? Type 'yes' or 'y' to continue: ")
		if err != nil || (again != "yes" && again != "y") {
			bannerColor.Fprintln(s.out, "\nThank you for exploring US bike share data!")
			return nil
		}
	}
}

// analyze prints the report for sel and offers raw rows.
func (s *session) analyze(ctx context.Context, sel trips.Selection) error {
	r, tbl, err := s.rt.buildReport(ctx, sel)
	if err != nil {
		return s.rt.fail("explore", err)
	}
	if err := report.WriteText(s.out, r); err != nil {
		return err
	}

	pager := trips.NewPager(tbl, s.rt.cfg.Pager.PageSize)
	for {
		answer, err := s.ask("\nWould you like to see raw data? Enter 'yes' to continue or anything else to skip: ")
		if err != nil || answer != "yes" {
			return nil
		}
		page, ok := pager.Next()
		if !ok {
			fmt.Fprintf(s.out, "\n%s\n", noMoreData)
			return nil
		}
		fmt.Fprintln(s.out)
		if err := report.WritePage(s.out, tbl.Columns, page); err != nil {
			return err
		}
	}
}

func (s *session) promptSelection() (trips.Selection, error) {
	m := s.menus
	city, err := s.choose(m.city,
		fmt.Sprintf("Enter the city name (%s)\nor select a number (%s): ", m.city.names(), m.city.menu()))
	if err != nil {
		return trips.Selection{}, err
	}
	month, err := s.choose(m.month,
		fmt.Sprintf("\nEnter a month (%s) or select a number:\n%s\nYour choice: ", m.month.names(), m.month.menu()))
	if err != nil {
		return trips.Selection{}, err
	}
	day, err := s.choose(m.day,
		fmt.Sprintf("\nEnter a day of the week (%s) or select a number:\n%s\nYour choice: ", m.day.names(), m.day.menu()))
	if err != nil {
		return trips.Selection{}, err
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 40))
	return trips.Selection{City: city, Month: month, Day: day}, nil
}

// choose re-prompts until the input matches one of c's options.
func (s *session) choose(c choices, prompt string) (string, error) {
	for {
		answer, err := s.ask(prompt)
		if err != nil {
			return "", err
		}
		v, err := c.pick(answer)
		if err == nil {
			return v, nil
		}
		errorColor.Fprintf(s.out, "\nInvalid input. Please select a valid %s option.\n\n", c.Kind)
	}
}

// ask prints prompt and returns the next trimmed, lowercased line.
func (s *session) ask(prompt string) (string, error) {
	promptColor.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())), nil
}

// dropCache logs what the session cached, then empties the cache so no
// snapshot outlives the session, whatever the DSN.
func (s *session) dropCache(ctx context.Context) {
	store := s.rt.store
	if store == nil {
		return
	}
	log := s.rt.logger()

	list, err := store.ListDatasets(ctx)
	if err != nil {
		log.Warn("list cache failed", slog.String("error", err.Error()))
	}
	cities := make([]string, len(list))
	for i, d := range list {
		cities[i] = d.City
	}
	if stats, err := store.GetStats(ctx); err == nil {
		log.Debug("session cache",
			slog.Int64("datasets", stats.Datasets),
			slog.Int64("rows", stats.TotalRows),
			slog.String("cities", strings.Join(cities, ",")))
	}

	if err := store.PurgeAll(ctx); err != nil {
		log.Warn("purge cache failed", slog.String("error", err.Error()))
	}
}

// isDataError reports whether err concerns one dataset and the session can go on.
func isDataError(err error) bool {
	switch trips.Classify(err) {
	case trips.CodeNotFound, trips.CodeSourceUnavailable, trips.CodeMalformedTimestamp:
		return true
	}
	return false
}
