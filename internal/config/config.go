package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paylens-dev/paylens/internal/report"
	"github.com/paylens-dev/paylens/internal/store"
)

// Config represents the top-level paylens.yaml configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Report ReportConfig `yaml:"report"`
}

// StoreConfig maps department labels to record store paths. The list order
// is the snapshot merge priority.
type StoreConfig struct {
	Departments []Department `yaml:"departments"`
	DebounceMS  int          `yaml:"debounce_ms,omitempty"`
}

// Department names one watched slice of the record store. The archived path
// holds exited clients and is optional.
type Department struct {
	Label        string `yaml:"label"`
	Path         string `yaml:"path"`
	ArchivedPath string `yaml:"archived_path,omitempty"`
}

// ReportConfig controls presentation defaults.
type ReportConfig struct {
	PageSize int `yaml:"page_size"`
}

// Load reads a paylens.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with documented defaults.
func Default() *Config {
	return &Config{
		Report: ReportConfig{PageSize: report.DefaultPageSize},
	}
}

func (c *Config) validate() error {
	if c.Report.PageSize == 0 {
		c.Report.PageSize = report.DefaultPageSize
	}
	if !validPageSize(c.Report.PageSize) {
		return fmt.Errorf("unsupported page size %d (choices: %v)", c.Report.PageSize, report.PageSizes)
	}
	for i, d := range c.Store.Departments {
		if d.Label == "" {
			return fmt.Errorf("department %d: missing label", i)
		}
		if d.Path == "" {
			return fmt.Errorf("department %q: missing path", d.Label)
		}
	}
	return nil
}

func validPageSize(n int) bool {
	for _, s := range report.PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// WatchPaths flattens the department table into store watch paths, active
// before archived, preserving configured order.
func (c *Config) WatchPaths() []store.WatchPath {
	var paths []store.WatchPath
	for _, d := range c.Store.Departments {
		paths = append(paths, store.WatchPath{Department: d.Label, Dir: d.Path})
		if d.ArchivedPath != "" {
			paths = append(paths, store.WatchPath{Department: d.Label, Dir: d.ArchivedPath})
		}
	}
	return paths
}

// Debounce returns the configured notification debounce window.
func (c *Config) Debounce() time.Duration {
	if c.Store.DebounceMS <= 0 {
		return store.DefaultDebounce
	}
	return time.Duration(c.Store.DebounceMS) * time.Millisecond
}
