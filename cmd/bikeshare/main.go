package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/bikeshare/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		// go-flags has already printed parse errors.
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
