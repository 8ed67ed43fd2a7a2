// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Sim       SimConfig       `yaml:"sim"`
	Mutation  MutationConfig  `yaml:"mutation"`
	Walls     WallsConfig     `yaml:"walls"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical driver.
type ScreenConfig struct {
	PixelSize int `yaml:"pixel_size"` // screen pixels per grid tile
	TargetFPS int `yaml:"target_fps"`
	PanelW    int `yaml:"panel_width"` // control panel width in pixels
}

// GridConfig holds the simulation grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SimConfig holds the simulation-wide tunables threaded into the world.
type SimConfig struct {
	FoodProductionProb     float64 `yaml:"food_production_prob"`
	MaxOrganisms           int     `yaml:"max_organisms"`
	LifespanMultiplier     int     `yaml:"lifespan_multiplier"`
	InstaKill              bool    `yaml:"insta_kill"`
	FoodBlocksReproduction bool    `yaml:"food_blocks_reproduction"`
}

// MutationConfig holds the independent body-mutation probabilities applied
// when an offspring mutates.
type MutationConfig struct {
	AddProb    float64 `yaml:"add_prob"`
	ChangeProb float64 `yaml:"change_prob"`
	RemoveProb float64 `yaml:"remove_prob"`
}

// WallsConfig holds procedural wall generation parameters.
type WallsConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Scale     float64 `yaml:"scale"`     // noise frequency in grid units
	Threshold float64 `yaml:"threshold"` // noise above this becomes wall
}

// TelemetryConfig holds stats collection settings.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // ticks averaged for perf reporting
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WindowW int32 // grid width * pixel size + control panel
	WindowH int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.PixelSize < 1 {
		c.Screen.PixelSize = 1
	}
	c.Derived.WindowW = int32(c.Grid.Width*c.Screen.PixelSize + c.Screen.PanelW)
	c.Derived.WindowH = int32(c.Grid.Height * c.Screen.PixelSize)
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
