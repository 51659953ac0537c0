package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/trips"
)

const noMoreData = "No more data to display!"

// rowsJSON is the JSON output structure for the rows command.
type rowsJSON struct {
	Selection trips.Selection `json:"selection"`
	Columns   []string        `json:"columns"`
	Pages     []pageJSON      `json:"pages"`
	Exhausted bool            `json:"exhausted"`
}

type pageJSON struct {
	Number int        `json:"number"`
	Offset int        `json:"offset"`
	Rows   [][]string `json:"rows"`
}

// Execute implements the go-flags Commander interface for RowsCommand.
func (c *RowsCommand) Execute(args []string) error {
	return withRuntime(c.globals, false, c.executeWithRuntime)
}

// executeWithRuntime pages through raw rows against a provided runtime (for testing).
func (c *RowsCommand) executeWithRuntime(ctx context.Context, rt *runtime) error {
	if c.Pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}
	sel, err := rt.selection(c.SelectionFlags)
	if err != nil {
		return err
	}

	tbl, err := rt.selected(ctx, sel)
	if err != nil {
		return rt.fail("rows", err)
	}

	size := c.PageSize
	if size < 1 {
		size = rt.cfg.Pager.PageSize
	}
	pager := trips.NewPager(tbl, size)

	if c.globals != nil && c.globals.JSON {
		out := rowsJSON{Selection: sel, Columns: tbl.Columns, Pages: []pageJSON{}}
		for i := 0; i < c.Pages; i++ {
			page, ok := pager.Next()
			if !ok {
				break
			}
			pj := pageJSON{Number: page.Number, Offset: page.Offset, Rows: make([][]string, len(page.Rows))}
			for j, trip := range page.Rows {
				pj.Rows[j] = trip.Fields
			}
			out.Pages = append(out.Pages, pj)
		}
		out.Exhausted = pager.Remaining() == 0
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i := 0; i < c.Pages; i++ {
		page, ok := pager.Next()
		if !ok {
			fmt.Fprintln(rt.out, noMoreData)
			return nil
		}
		if err := report.WritePage(rt.out, tbl.Columns, page); err != nil {
			return err
		}
	}
	if pager.Remaining() > 0 {
		fmt.Fprintf(rt.out, "%s more rows.\n", formatNumber(int64(pager.Remaining())))
	}
	return nil
}
