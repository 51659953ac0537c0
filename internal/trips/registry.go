package trips

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dataset is one registered city trip log.
type Dataset struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Registry maps dataset identifiers to source paths.
type Registry struct {
	datasets []Dataset
	byKey    map[string]int
}

// NewRegistry builds a registry from datasets in display order. Relative
// paths are resolved against dir.
func NewRegistry(dir string, datasets []Dataset) (*Registry, error) {
	r := &Registry{
		datasets: make([]Dataset, 0, len(datasets)),
		byKey:    make(map[string]int, len(datasets)),
	}
	for _, d := range datasets {
		key := normalizeKey(d.Key)
		if key == "" {
			return nil, fmt.Errorf("dataset %q: empty key", d.Name)
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("dataset %q: duplicate key", key)
		}
		path := d.Path
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		r.byKey[key] = len(r.datasets)
		r.datasets = append(r.datasets, Dataset{Key: key, Name: d.Name, Path: path})
	}
	return r, nil
}

// Resolve returns the source path for cityKey.
func (r *Registry) Resolve(cityKey string) (string, error) {
	d, err := r.Lookup(cityKey)
	if err != nil {
		return "", err
	}
	return d.Path, nil
}

// Lookup returns the registered dataset for cityKey.
func (r *Registry) Lookup(cityKey string) (Dataset, error) {
	i, ok := r.byKey[normalizeKey(cityKey)]
	if !ok {
		return Dataset{}, fmt.Errorf("resolve %q: %w", cityKey, ErrNotFound)
	}
	return r.datasets[i], nil
}

// Datasets returns the registered datasets in configured order.
func (r *Registry) Datasets() []Dataset {
	out := make([]Dataset, len(r.datasets))
	copy(out, r.datasets)
	return out
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
