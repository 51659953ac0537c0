package cli

import (
	"context"

	"github.com/runnerr0/bikeshare/internal/report"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return withRuntime(c.globals, false, c.executeWithRuntime)
}

// executeWithRuntime prints the report against a provided runtime (for testing).
func (c *StatsCommand) executeWithRuntime(ctx context.Context, rt *runtime) error {
	sel, err := rt.selection(c.SelectionFlags)
	if err != nil {
		return err
	}

	r, _, err := rt.buildReport(ctx, sel)
	if err != nil {
		return rt.fail("stats", err)
	}

	if c.globals != nil && c.globals.JSON {
		return report.WriteJSON(rt.out, r)
	}
	return report.WriteText(rt.out, r)
}
