package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// datasetsJSON is the JSON output structure for the datasets command.
type datasetsJSON struct {
	Version  string        `json:"version"`
	DataDir  string        `json:"data_dir"`
	Datasets []datasetJSON `json:"datasets"`
}

type datasetJSON struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Available bool   `json:"available"`
	SizeBytes int64  `json:"size_bytes"`
}

// Execute implements the go-flags Commander interface for DatasetsCommand.
func (c *DatasetsCommand) Execute(args []string) error {
	return withRuntime(c.globals, false, c.executeWithRuntime)
}

// executeWithRuntime lists datasets against a provided runtime (for testing).
func (c *DatasetsCommand) executeWithRuntime(ctx context.Context, rt *runtime) error {
	out := datasetsJSON{Version: c.version, DataDir: rt.cfg.Data.Dir, Datasets: []datasetJSON{}}

	for _, ds := range rt.registry.Datasets() {
		dj := datasetJSON{Key: ds.Key, Name: ds.Name, Path: ds.Path}
		if info, err := os.Stat(ds.Path); err == nil && !info.IsDir() {
			dj.Available = true
			dj.SizeBytes = info.Size()
		}
		out.Datasets = append(out.Datasets, dj)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return c.printHuman(rt, out)
}

func (c *DatasetsCommand) printHuman(rt *runtime, out datasetsJSON) error {
	w := rt.out
	fmt.Fprintln(w, "Bikeshare Datasets")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "Version:       %s\n", out.Version)
	fmt.Fprintf(w, "Data dir:      %s\n", out.DataDir)
	fmt.Fprintln(w)

	available := 0
	for i, d := range out.Datasets {
		status := "missing"
		if d.Available {
			status = formatBytes(d.SizeBytes)
			available++
		}
		fmt.Fprintf(w, "%d: %-15s %s (%s)\n", i+1, d.Name, d.Path, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Available:     %d of %d\n", available, len(out.Datasets))
	return nil
}
