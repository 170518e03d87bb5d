package bench

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/velox-bench/dialect"
)

// Duration wraps time.Duration so it can be written as "150ms" in the
// YAML config.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("bench: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config describes one benchmark run.
type Config struct {
	// Dialect is the database backend under benchmark.
	Dialect string `yaml:"dialect"`
	// DSN is the connection string for the backend.
	DSN string `yaml:"dsn"`
	// Workloads lists the workloads to run. Empty means all builtins.
	Workloads []string `yaml:"workloads"`
	// Iterations is the number of operations each worker runs per
	// workload.
	Iterations int `yaml:"iterations"`
	// Workers is the number of concurrent workers per workload. It also
	// bounds the connection pool, so it controls how many physical
	// connections the session hook is applied to.
	Workers int `yaml:"workers"`
	// SlowThreshold marks operations slower than this as slow.
	SlowThreshold Duration `yaml:"slow_threshold"`
	// Baseline is an optional path to a baseline report to compare
	// against.
	Baseline string `yaml:"baseline"`
}

// Defaults used when the config omits a field.
const (
	DefaultIterations    = 1000
	DefaultWorkers       = 4
	DefaultSlowThreshold = Duration(100 * time.Millisecond)
)

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("bench: parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = DefaultSlowThreshold
	}
	if len(c.Workloads) == 0 {
		c.Workloads = WorkloadNames()
	}
}

// Validate reports the first problem with the config.
func (c *Config) Validate() error {
	if !dialect.Valid(c.Dialect) {
		return fmt.Errorf("bench: unsupported dialect %q", c.Dialect)
	}
	if c.DSN == "" {
		return fmt.Errorf("bench: dsn is required")
	}
	if c.Iterations < 1 {
		return fmt.Errorf("bench: iterations must be positive, got %d", c.Iterations)
	}
	if c.Workers < 1 {
		return fmt.Errorf("bench: workers must be positive, got %d", c.Workers)
	}
	for _, name := range c.Workloads {
		if _, ok := builtins[name]; !ok {
			return fmt.Errorf("bench: unknown workload %q", name)
		}
	}
	return nil
}
