// Package config defines the server configuration structure.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultAddr = ":8080"

	DefaultStoreDriver = "memory"
	DefaultStorePath   = "talentflow.db"

	DefaultMinLatency     = 200 * time.Millisecond
	DefaultMaxLatency     = 1200 * time.Millisecond
	DefaultReadErrorRate  = 0.05
	DefaultWriteErrorRate = 0.10
)

// Duration wraps time.Duration so YAML values like "200ms" parse directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration for the server.
type Config struct {
	Server   ServerSection   `yaml:"server"`
	Store    StoreSection    `yaml:"store"`
	Simulate SimulateSection `yaml:"simulate"`
	Seed     SeedSection     `yaml:"seed"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	Addr string `yaml:"addr"`
}

// StoreSection selects the persistence backend.
type StoreSection struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path"`   // sqlite database file
}

// SimulateSection configures the fault-injection policy.
type SimulateSection struct {
	Enabled        bool     `yaml:"enabled"`
	MinLatency     Duration `yaml:"min_latency"`
	MaxLatency     Duration `yaml:"max_latency"`
	ReadErrorRate  float64  `yaml:"read_error_rate"`
	WriteErrorRate float64  `yaml:"write_error_rate"`
	// Seed fixes the rng; 0 means draw from the clock.
	Seed int64 `yaml:"seed"`
}

// SeedSection configures first-boot data generation.
type SeedSection struct {
	Candidates int `yaml:"candidates"`
}

// Default returns the default server configuration.
func Default() *Config {
	return &Config{
		Server: ServerSection{Addr: DefaultAddr},
		Store:  StoreSection{Driver: DefaultStoreDriver, Path: DefaultStorePath},
		Simulate: SimulateSection{
			Enabled:        true,
			MinLatency:     Duration(DefaultMinLatency),
			MaxLatency:     Duration(DefaultMaxLatency),
			ReadErrorRate:  DefaultReadErrorRate,
			WriteErrorRate: DefaultWriteErrorRate,
		},
		Seed: SeedSection{Candidates: 1000},
	}
}

// Load builds the configuration: defaults, then the YAML file when path is
// non-empty, then TALENTFLOW_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOr reads a TALENTFLOW_* variable, keeping cur when it is unset or empty.
func envOr(key, cur string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return cur
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOr("TALENTFLOW_ADDR", c.Server.Addr)
	c.Store.Driver = envOr("TALENTFLOW_STORE_DRIVER", c.Store.Driver)
	c.Store.Path = envOr("TALENTFLOW_STORE_PATH", c.Store.Path)
	if v := os.Getenv("TALENTFLOW_SIMULATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Simulate.Enabled = b
		}
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Store.Driver != "memory" && c.Store.Driver != "sqlite" {
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("config: sqlite driver needs store.path")
	}
	if c.Simulate.MaxLatency < c.Simulate.MinLatency {
		return fmt.Errorf("config: max_latency below min_latency")
	}
	for _, r := range []float64{c.Simulate.ReadErrorRate, c.Simulate.WriteErrorRate} {
		if r < 0 || r > 1 {
			return fmt.Errorf("config: error rate %v outside [0,1]", r)
		}
	}
	return nil
}
