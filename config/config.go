// Package config provides configuration loading and access for the client.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all client configuration parameters.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Poll      PollConfig      `yaml:"poll"`
	Screen    ScreenConfig    `yaml:"screen"`
	Scene     SceneConfig     `yaml:"scene"`
	Charts    ChartsConfig    `yaml:"charts"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ServerConfig holds remote simulation service settings.
type ServerConfig struct {
	BaseURL    string  `yaml:"base_url"`
	TimeoutSec float64 `yaml:"timeout_sec"`
}

// PollConfig holds polling cadences in milliseconds.
type PollConfig struct {
	StatusIntervalMS int `yaml:"status_interval_ms"`
	StateIntervalMS  int `yaml:"state_interval_ms"`
	StatsIntervalMS  int `yaml:"stats_interval_ms"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SceneConfig holds scene rendering settings.
type SceneConfig struct {
	AspectW      int    `yaml:"aspect_w"`
	AspectH      int    `yaml:"aspect_h"`
	GlucoseImage string `yaml:"glucose_image"` // optional decorative sprite path
}

// ChartsConfig holds chart buffer settings.
type ChartsConfig struct {
	Window int `yaml:"window"` // sliding window size per series
}

// TelemetryConfig holds client telemetry settings.
type TelemetryConfig struct {
	PollWindow int `yaml:"poll_window"` // round-trip samples per task
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ServerTimeout  time.Duration
	StatusInterval time.Duration
	StateInterval  time.Duration
	StatsInterval  time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Poll.StatusIntervalMS <= 0 {
		c.Poll.StatusIntervalMS = 5000
	}
	if c.Poll.StateIntervalMS <= 0 {
		c.Poll.StateIntervalMS = 100
	}
	if c.Poll.StatsIntervalMS <= 0 {
		c.Poll.StatsIntervalMS = 1000
	}
	if c.Charts.Window <= 0 {
		c.Charts.Window = 100
	}
	if c.Scene.AspectW <= 0 || c.Scene.AspectH <= 0 {
		c.Scene.AspectW, c.Scene.AspectH = 4, 3
	}
	if c.Telemetry.PollWindow <= 0 {
		c.Telemetry.PollWindow = 64
	}

	c.Derived.ServerTimeout = time.Duration(c.Server.TimeoutSec * float64(time.Second))
	c.Derived.StatusInterval = time.Duration(c.Poll.StatusIntervalMS) * time.Millisecond
	c.Derived.StateInterval = time.Duration(c.Poll.StateIntervalMS) * time.Millisecond
	c.Derived.StatsInterval = time.Duration(c.Poll.StatsIntervalMS) * time.Millisecond
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
