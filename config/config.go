// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Bird      BirdConfig      `yaml:"bird"`
	Eye       EyeConfig       `yaml:"eye"`
	Brain     BrainConfig     `yaml:"brain"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Storage   StorageConfig   `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the population sizes of the arena.
type WorldConfig struct {
	Birds int `yaml:"birds"`
	Foods int `yaml:"foods"`
}

// BirdConfig holds bird kinematics.
type BirdConfig struct {
	Speed         float64 `yaml:"speed"`          // Initial forward speed
	SpeedMin      float64 `yaml:"speed_min"`      // Lower speed clamp applied by the tick
	SpeedMax      float64 `yaml:"speed_max"`      // Upper speed clamp applied by the tick
	SpeedAccel    float64 `yaml:"speed_accel"`    // Brain output scale for speed deltas
	RotationAccel float64 `yaml:"rotation_accel"` // Brain output scale for heading deltas
	EatRadius     float64 `yaml:"eat_radius"`     // Collision distance for eating
}

// EyeConfig holds the field-of-view parameters shared by every bird.
type EyeConfig struct {
	FOVRange float64 `yaml:"fov_range"`
	FOVAngle float64 `yaml:"fov_angle"`
	Cells    int     `yaml:"cells"`
}

// BrainConfig holds neural network parameters.
type BrainConfig struct {
	HiddenLayers []int `yaml:"hidden_layers"` // Sizes of hidden layers; empty = [2*cells]
}

// EvolutionConfig holds generation and genetic operator parameters.
type EvolutionConfig struct {
	GenerationLength int     `yaml:"generation_length"` // Ticks per generation
	MutationChance   float64 `yaml:"mutation_chance"`
	MutationCoeff    float64 `yaml:"mutation_coeff"`
	Selection        string  `yaml:"selection"`
	TournamentSize   int     `yaml:"tournament_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"`
}

// StorageConfig selects the run statistics backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HiddenLayers []int   // Brain.HiddenLayers with the 2*cells default applied
	SpeedMin32   float32 // Bird.SpeedMin as float32
	SpeedMax32   float32 // Bird.SpeedMax as float32
	EatRadius32  float32 // Bird.EatRadius as float32
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

// Default returns the embedded defaults. It panics if they do not parse,
// which can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Eye.FOVRange <= 0:
		return fmt.Errorf("%w: eye.fov_range must be > 0, got %v", ErrInvalid, c.Eye.FOVRange)
	case c.Eye.FOVAngle <= 0:
		return fmt.Errorf("%w: eye.fov_angle must be > 0, got %v", ErrInvalid, c.Eye.FOVAngle)
	case c.Eye.Cells <= 0:
		return fmt.Errorf("%w: eye.cells must be > 0, got %d", ErrInvalid, c.Eye.Cells)
	case c.World.Birds < 0 || c.World.Foods < 0:
		return fmt.Errorf("%w: world counts must be >= 0", ErrInvalid)
	case c.Bird.SpeedMin > c.Bird.SpeedMax:
		return fmt.Errorf("%w: bird.speed_min %v exceeds speed_max %v", ErrInvalid, c.Bird.SpeedMin, c.Bird.SpeedMax)
	case c.Bird.EatRadius < 0:
		return fmt.Errorf("%w: bird.eat_radius must be >= 0", ErrInvalid)
	case c.Evolution.GenerationLength <= 0:
		return fmt.Errorf("%w: evolution.generation_length must be > 0", ErrInvalid)
	}
	for _, n := range c.Brain.HiddenLayers {
		if n <= 0 {
			return fmt.Errorf("%w: brain.hidden_layers entries must be > 0", ErrInvalid)
		}
	}
	switch c.Evolution.Selection {
	case "", "roulette", "tournament":
	default:
		return fmt.Errorf("%w: unknown evolution.selection %q", ErrInvalid, c.Evolution.Selection)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after mutating a loaded config in place.
func (c *Config) ComputeDerived() {
	c.Derived.SpeedMin32 = float32(c.Bird.SpeedMin)
	c.Derived.SpeedMax32 = float32(c.Bird.SpeedMax)
	c.Derived.EatRadius32 = float32(c.Bird.EatRadius)

	if len(c.Brain.HiddenLayers) == 0 {
		c.Derived.HiddenLayers = []int{2 * c.Eye.Cells}
	} else {
		c.Derived.HiddenLayers = append([]int(nil), c.Brain.HiddenLayers...)
	}
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
