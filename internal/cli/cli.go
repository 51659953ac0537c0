package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Explore    *ExploreCommand
	Stats      *StatsCommand
	Rows       *RowsCommand
	Export     *ExportCommand
	Datasets   *DatasetsCommand
	InitConfig *InitConfigCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "bikeshare"
	parser.LongDescription = "Explore US bike share trip data: popular times, stations, trip durations and riders."

	cmds := &commands{
		Explore:    &ExploreCommand{globals: &globals, version: version},
		Stats:      &StatsCommand{globals: &globals, version: version},
		Rows:       &RowsCommand{globals: &globals, version: version},
		Export:     &ExportCommand{globals: &globals, version: version},
		Datasets:   &DatasetsCommand{globals: &globals, version: version},
		InitConfig: &InitConfigCommand{globals: &globals, version: version},
	}

	parser.AddCommand("explore", "Interactive exploration session", "Prompt for a city, month and day, print statistics and page through raw rows.", cmds.Explore)
	parser.AddCommand("stats", "Print statistics for a selection", "Print travel time, station, duration and rider statistics for a city, month and day.", cmds.Stats)
	parser.AddCommand("rows", "Print raw rows for a selection", "Print the filtered raw rows a page at a time.", cmds.Rows)
	parser.AddCommand("export", "Export a selection to XLSX", "Write the statistics and filtered rows of a selection to an XLSX workbook.", cmds.Export)
	parser.AddCommand("datasets", "List configured datasets", "List configured datasets, their source files and whether they exist.", cmds.Datasets)
	parser.AddCommand("init-config", "Write the default config file", "Write the default YAML config file if it does not exist yet.", cmds.InitConfig)

	return parser, &globals, cmds
}

// Run is the main entry point for the bikeshare CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("bikeshare %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
