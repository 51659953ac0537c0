package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Default config file path.
const DefaultConfigPath = "~/.config/bikeshare/config.yaml"

// EnvPrefix prefixes every environment override, e.g. BIKESHARE_DATA_DIR.
const EnvPrefix = "BIKESHARE"

// Config holds all bikeshare configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Filters FiltersConfig `yaml:"filters" envconfig:"FILTERS"`
	Pager   PagerConfig   `yaml:"pager" envconfig:"PAGER"`
	Cache   CacheConfig   `yaml:"cache" envconfig:"CACHE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

type DataConfig struct {
	Dir         string          `yaml:"dir" envconfig:"DIR" validate:"required"`
	TimeLayouts []string        `yaml:"time_layouts" envconfig:"TIME_LAYOUTS" validate:"required,min=1,dive,required"`
	Datasets    []DatasetConfig `yaml:"datasets" ignored:"true" validate:"required,min=1,dive"`
}

type DatasetConfig struct {
	Key  string `yaml:"key" validate:"required"`
	Name string `yaml:"name"`
	File string `yaml:"file" validate:"required"`
}

type FiltersConfig struct {
	Months []string `yaml:"months" envconfig:"MONTHS" validate:"required,min=1,dive,required"`
	Days   []string `yaml:"days" envconfig:"DAYS" validate:"required,min=1,dive,required"`
}

type PagerConfig struct {
	PageSize int `yaml:"page_size" envconfig:"PAGE_SIZE" validate:"min=1,max=1000"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	DSN     string `yaml:"dsn" envconfig:"DSN" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// DefaultPath returns DefaultConfigPath with the home directory expanded.
func DefaultPath() (string, error) {
	return expandPath(DefaultConfigPath)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// Resolve builds the effective configuration. An explicit path must exist.
// Without one the default path is used when present, otherwise built-in
// defaults. Environment overrides are applied last, then the result is
// validated.
func Resolve(path string) (*Config, error) {
	var cfg *Config
	switch {
	case path != "":
		p, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		if cfg, err = Load(p); err != nil {
			return nil, err
		}
	default:
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(p); statErr == nil {
			if cfg, err = Load(p); err != nil {
				return nil, err
			}
		} else {
			cfg = DefaultConfig()
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any BIKESHARE_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks cfg against its struct tags and rejects duplicate dataset keys.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Data.Registry(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Entries converts the configured datasets for the trips registry.
func (d DataConfig) Entries() []trips.Dataset {
	out := make([]trips.Dataset, len(d.Datasets))
	for i, ds := range d.Datasets {
		out[i] = trips.Dataset{Key: ds.Key, Name: ds.Name, Path: ds.File}
	}
	return out
}

// Registry builds the dataset registry rooted at Dir.
func (d DataConfig) Registry() (*trips.Registry, error) {
	dir, err := expandPath(d.Dir)
	if err != nil {
		return nil, err
	}
	return trips.NewRegistry(dir, d.Entries())
}
