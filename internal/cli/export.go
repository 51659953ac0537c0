package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runnerr0/bikeshare/internal/report"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	return withRuntime(c.globals, false, c.executeWithRuntime)
}

// executeWithRuntime writes the workbook against a provided runtime (for testing).
func (c *ExportCommand) executeWithRuntime(ctx context.Context, rt *runtime) error {
	if c.Out == "" {
		return fmt.Errorf("--out is required")
	}
	if filepath.Ext(c.Out) != ".xlsx" {
		return fmt.Errorf("--out must end in .xlsx, got %q", c.Out)
	}
	sel, err := rt.selection(c.SelectionFlags)
	if err != nil {
		return err
	}

	r, tbl, err := rt.buildReport(ctx, sel)
	if err != nil {
		return rt.fail("export", err)
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Out, err)
	}
	w := bufio.NewWriter(f)
	if err := report.WriteXLSX(w, r, tbl); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Out, err)
	}

	rt.logger().Info("exported", "path", c.Out, "rows", r.Rows)
	fmt.Fprintf(rt.out, "Exported %s trips to %s\n", formatNumber(int64(r.Rows)), c.Out)
	return nil
}
