package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// ErrInvalidSelection: a city, month or day outside the configured options.
var ErrInvalidSelection = errors.New("invalid selection")

// option is one numbered choice offered to the user.
type option struct {
	Value string // lowercase value handed to the core
	Label string
}

// choices is an ordered option list, optionally ending in "all".
type choices struct {
	Kind    string
	Options []option
}

func cityChoices(reg *trips.Registry) choices {
	c := choices{Kind: "city"}
	for _, ds := range reg.Datasets() {
		label := ds.Name
		if label == "" {
			label = ds.Key
		}
		c.Options = append(c.Options, option{Value: ds.Key, Label: label})
	}
	return c
}

func vocabularyChoices(kind string, values []string, allLabel string) choices {
	c := choices{Kind: kind}
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		c.Options = append(c.Options, option{Value: v, Label: titleCase(v)})
	}
	c.Options = append(c.Options, option{Value: trips.All, Label: allLabel})
	return c
}

// pick matches input against option values or 1-based numbers.
func (c choices) pick(input string) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", fmt.Errorf("%w: empty %s", ErrInvalidSelection, c.Kind)
	}
	for _, o := range c.Options {
		if in == o.Value {
			return o.Value, nil
		}
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(c.Options) {
		return c.Options[n-1].Value, nil
	}
	return "", fmt.Errorf("%w: %s %q", ErrInvalidSelection, c.Kind, input)
}

// menu renders "1: Chicago | 2: New York City | ...".
func (c choices) menu() string {
	parts := make([]string, len(c.Options))
	for i, o := range c.Options {
		parts[i] = fmt.Sprintf("%d: %s", i+1, o.Label)
	}
	return strings.Join(parts, " | ")
}

// names lists the option labels, skipping "all".
func (c choices) names() string {
	var parts []string
	for _, o := range c.Options {
		if o.Value != trips.All {
			parts = append(parts, o.Label)
		}
	}
	return strings.Join(parts, ", ")
}

// menus bundles the three choice lists of one runtime.
type menus struct {
	city, month, day choices
}

func (rt *runtime) menus() menus {
	return menus{
		city:  cityChoices(rt.registry),
		month: vocabularyChoices("month", rt.cfg.Filters.Months, "All months"),
		day:   vocabularyChoices("day", rt.cfg.Filters.Days, "All days"),
	}
}

// selection normalizes and validates flag values.
func (rt *runtime) selection(f SelectionFlags) (trips.Selection, error) {
	m := rt.menus()
	if strings.TrimSpace(f.City) == "" {
		return trips.Selection{}, fmt.Errorf("%w: --city is required (%s)", ErrInvalidSelection, m.city.names())
	}
	city, err := m.city.pick(f.City)
	if err != nil {
		return trips.Selection{}, err
	}
	month, err := m.month.pick(orAll(f.Month))
	if err != nil {
		return trips.Selection{}, err
	}
	day, err := m.day.pick(orAll(f.Day))
	if err != nil {
		return trips.Selection{}, err
	}
	return trips.Selection{City: city, Month: month, Day: day}, nil
}

func orAll(s string) string {
	if strings.TrimSpace(s) == "" {
		return trips.All
	}
	return s
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
