package cli

import (
	"fmt"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
)

// Execute implements the go-flags Commander interface for InitConfigCommand.
func (c *InitConfigCommand) Execute(args []string) error {
	path := c.Path
	if path == "" && c.globals != nil {
		path = c.globals.Config
	}
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	if _, err := config.LoadOrCreateAt(path); err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}
