// Package envconfig provides configuration structs for configuring
// locomotion environments with default reward parameters and episode
// settings. Environment configurations in this package are YAML and
// JSON serializable, so they can be stored alongside experiment data
// and used to reconstruct the environment later.
package envconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	env "github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/environment/mujoco"
	"github.com/samuelfneumann/locomotion/environment/mujoco/hopper"
	"github.com/samuelfneumann/locomotion/environment/mujoco/walker2d"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Hopper   EnvName = "Hopper"
	Walker2D EnvName = "Walker2D"
)

// Defaults shared by all environments
const (
	DefaultBackend   = "mujoco"
	DefaultFrameSkip = 1
	DefaultDiscount  = 0.99
)

// Config implements a specific configuration of a specific environment.
// Only the reward configuration of the configured environment is used.
type Config struct {
	Environment EnvName `yaml:"environment" json:"environment"`

	// Backend is the name of the registered mujoco simulator backend
	// used by Open
	Backend   string `yaml:"backend" json:"backend"`
	ModelPath string `yaml:"model_path" json:"model_path"`
	FrameSkip int    `yaml:"frame_skip" json:"frame_skip"`

	Discount float64 `yaml:"discount" json:"discount"`

	// EpisodeCutoff is the maximum number of steps in an episode, zero
	// for no limit
	EpisodeCutoff int    `yaml:"episode_cutoff" json:"episode_cutoff"`
	Seed          uint64 `yaml:"seed" json:"seed"`

	Hopper   hopper.Config   `yaml:"hopper" json:"hopper"`
	Walker2D walker2d.Config `yaml:"walker2d" json:"walker2d"`
}

// Default returns the default configuration of the named environment
func Default(name EnvName) (Config, error) {
	c := Config{
		Environment: name,
		Backend:     DefaultBackend,
		FrameSkip:   DefaultFrameSkip,
		Discount:    DefaultDiscount,
		Hopper:      hopper.DefaultConfig(),
		Walker2D:    walker2d.DefaultConfig(),
	}

	switch name {
	case Hopper:
		c.ModelPath = "hopper.xml"

	case Walker2D:
		c.ModelPath = "walker2d.xml"

	default:
		return Config{}, fmt.Errorf("default: no such environment %q", name)
	}

	return c, nil
}

// Validate returns an error if the configuration cannot describe an
// environment
func (c Config) Validate() error {
	switch c.Environment {
	case Hopper, Walker2D:
	default:
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}

	if c.FrameSkip <= 0 {
		return fmt.Errorf("validate: frame skip should be positive, got %v",
			c.FrameSkip)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount should be in [0, 1], got %v",
			c.Discount)
	}
	if c.EpisodeCutoff < 0 {
		return fmt.Errorf("validate: episode cutoff should be "+
			"non-negative, got %v", c.EpisodeCutoff)
	}
	return nil
}

// Create returns the environment described by the Config over sim as
// well as the first timestep of the environment.
func (c Config) Create(sim mujoco.Simulator) (env.Environment, ts.TimeStep,
	error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	switch c.Environment {
	case Hopper:
		h, step, err := hopper.New(sim, c.Hopper, c.Seed, c.EpisodeCutoff,
			c.Discount)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		return h, step, nil

	case Walker2D:
		w, step, err := walker2d.New(sim, c.Walker2D, c.Seed,
			c.EpisodeCutoff, c.Discount)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		return w, step, nil
	}

	panic(fmt.Sprintf("create: cannot create environment %v, no such "+
		"environment", c.Environment))
}

// Open opens a simulator for the configured model with the configured
// backend and returns the environment described by the Config over it.
func (c Config) Open() (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("open: %w", err)
	}

	sim, err := mujoco.Open(c.Backend, c.ModelPath, c.FrameSkip)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("open: %w", err)
	}

	e, step, err := c.Create(sim)
	if err != nil {
		sim.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("open: %w", err)
	}
	return e, step, nil
}

// Load reads a Config from the YAML file at path. Fields missing from
// the file keep the defaults of the environment named in the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	var named struct {
		Environment EnvName `yaml:"environment"`
	}
	if err := yaml.Unmarshal(data, &named); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	c, err := Default(named.Environment)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// Save writes the Config as YAML to path
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
