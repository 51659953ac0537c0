package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// SelectionFlags choose a dataset and time filter. Values accept a name or
// its 1-based option number.
type SelectionFlags struct {
	City  string `long:"city" description:"City name or option number (required)"`
	Month string `long:"month" description:"Month name, option number or all" default:"all"`
	Day   string `long:"day" description:"Day of week, option number or all" default:"all"`
}

// ExploreCommand runs the interactive session: prompts, report and raw row paging.
type ExploreCommand struct {
	globals *GlobalFlags
	version string
	in      io.Reader // injectable for testing; nil means os.Stdin
}

// StatsCommand prints the statistics report for one selection.
type StatsCommand struct {
	SelectionFlags

	globals *GlobalFlags
	version string
}

// RowsCommand prints raw rows of one selection, page by page.
type RowsCommand struct {
	SelectionFlags
	Pages    int `long:"pages" description:"Number of pages to print" default:"1"`
	PageSize int `long:"page-size" description:"Rows per page (default from config)"`

	globals *GlobalFlags
	version string
}

// ExportCommand writes the report and filtered rows to an XLSX workbook.
type ExportCommand struct {
	SelectionFlags
	Out string `long:"out" description:"Output .xlsx path (required)"`

	globals *GlobalFlags
	version string
}

// DatasetsCommand lists configured datasets and whether their files exist.
type DatasetsCommand struct {
	globals *GlobalFlags
	version string
}

// InitConfigCommand writes the default config file.
type InitConfigCommand struct {
	Path string `long:"path" description:"Config file to create (default ~/.config/bikeshare/config.yaml)"`

	globals *GlobalFlags
	version string
}
