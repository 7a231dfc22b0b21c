package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gbsim/internal/dynamo"
	"github.com/san-kum/gbsim/internal/lattice"
	"github.com/san-kum/gbsim/internal/physics"
)

const (
	PotentialGayBerne      = "gay_berne"
	PotentialLebwohlLasher = "lebwohl_lasher"
)

const (
	DefaultOrientation = "end_to_end"
	DefaultRMin        = 0.5
	DefaultRMax        = 6.0
	DefaultSteps       = 200
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

type Config struct {
	Potential     string                 `yaml:"potential"`
	Strict        bool                   `yaml:"strict"`
	Dipole        bool                   `yaml:"dipole"`
	GayBerne      physics.GayBerneParams `yaml:"gay_berne"`
	LebwohlLasher LebwohlLasherConfig    `yaml:"lebwohl_lasher"`
	Pair          PairConfig             `yaml:"pair"`
	Profile       ProfileConfig          `yaml:"profile"`
	Lattice       lattice.Layout         `yaml:"lattice"`
	Anneal        AnnealConfig           `yaml:"anneal"`
	Logger        LoggerConfig           `yaml:"logger"`
}

type LebwohlLasherConfig struct {
	Epsilon0 float64 `yaml:"epsilon0"`
}

type PairConfig struct {
	Spin1     []float64 `yaml:"spin1"`
	Location1 []float64 `yaml:"location1"`
	Spin2     []float64 `yaml:"spin2"`
	Location2 []float64 `yaml:"location2"`
}

type ProfileConfig struct {
	Orientation string  `yaml:"orientation"`
	RMin        float64 `yaml:"r_min"`
	RMax        float64 `yaml:"r_max"`
	Steps       int     `yaml:"steps"`
}

// AnnealConfig drives a Monte Carlo run over the lattice. Boltzmann
// converts temperature to energy units.
type AnnealConfig struct {
	Mode               string           `yaml:"mode"`
	InitialTemperature float64          `yaml:"initial_temperature"`
	Boltzmann          float64          `yaml:"boltzmann"`
	StepsPerParticle   int              `yaml:"steps_per_particle"`
	Seed               int64            `yaml:"seed"`
	Moves              lattice.Moves    `yaml:"moves"`
	Schedule           lattice.Schedule `yaml:"schedule"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Potential: PotentialGayBerne,
		GayBerne:  physics.DefaultGayBerneParams(),
		LebwohlLasher: LebwohlLasherConfig{
			Epsilon0: 1.0,
		},
		Pair: PairConfig{
			Spin1:     []float64{1, 0, 0},
			Location1: []float64{0, 0, 0},
			Spin2:     []float64{1, 0, 0},
			Location2: []float64{4, 0, 0},
		},
		Profile: ProfileConfig{
			Orientation: DefaultOrientation,
			RMin:        DefaultRMin,
			RMax:        DefaultRMax,
			Steps:       DefaultSteps,
		},
		Lattice: DefaultLayout(),
		Anneal:  DefaultAnneal(),
		Logger: LoggerConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultLayout stacks rods along z at their side-by-side and end-to-end
// well separations for the default parameters.
func DefaultLayout() lattice.Layout {
	return lattice.Layout{
		Dims:      []int{4, 4, 2},
		Spacing:   []float64{1.2, 1.2, 3.3},
		Spin:      []float64{0, 0, 1},
		SpinStdev: 0.2,
	}
}

func DefaultAnneal() AnnealConfig {
	return AnnealConfig{
		Mode:               lattice.ModeCool,
		InitialTemperature: 2.0,
		Boltzmann:          1.0,
		StepsPerParticle:   20,
		Seed:               1,
		Moves:              lattice.Moves{SpinStdev: 0.2, SpacingStdev: 0.02, Cutoff: 0.1},
		Schedule: lattice.Schedule{
			Temperatures:    lattice.Range(1.5, 0.1, -0.2),
			MaxNonImproving: 3,
			MaxSteps:        20,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parts of the config that the potentials themselves
// do not: the pair dimensions and the profile range.
func (c *Config) Validate() error {
	s1, l1, s2, l2 := c.PairVectors()
	if err := dynamo.CheckDims(s1, l1, s2, l2); err != nil {
		return fmt.Errorf("pair: %w", err)
	}
	if len(s1) == 0 {
		return fmt.Errorf("pair: empty vectors: %w", dynamo.ErrDimensionMismatch)
	}
	for _, v := range []struct {
		name string
		vec  dynamo.Vector
	}{{"pair.spin1", s1}, {"pair.location1", l1}, {"pair.spin2", s2}, {"pair.location2", l2}} {
		if !v.vec.IsValid() {
			return &dynamo.ParamError{Name: v.name, Value: firstInvalid(v.vec), Wrapped: dynamo.ErrParameterBounds}
		}
	}
	if c.Profile.Steps < 2 {
		return &dynamo.ParamError{Name: "profile.steps", Value: float64(c.Profile.Steps), Wrapped: dynamo.ErrParameterBounds}
	}
	if c.Profile.RMin <= 0 {
		return &dynamo.ParamError{Name: "profile.r_min", Value: c.Profile.RMin, Wrapped: dynamo.ErrParameterBounds}
	}
	if c.Profile.RMax <= c.Profile.RMin {
		return &dynamo.ParamError{Name: "profile.r_max", Value: c.Profile.RMax, Wrapped: dynamo.ErrParameterBounds}
	}
	return nil
}

func firstInvalid(v dynamo.Vector) float64 {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return x
		}
	}
	return 0
}

func (c *Config) PairVectors() (spin1, location1, spin2, location2 dynamo.Vector) {
	return c.Pair.Spin1, c.Pair.Location1, c.Pair.Spin2, c.Pair.Location2
}

// ValidateAnneal checks the lattice and Monte Carlo settings.
func (c *Config) ValidateAnneal() error {
	if err := c.Lattice.Validate(); err != nil {
		return err
	}
	if _, err := lattice.SelectorFor(c.Anneal.Mode); err != nil {
		return err
	}
	if t := c.Anneal.InitialTemperature; !(t >= 0) || math.IsInf(t, 0) {
		return &dynamo.ParamError{Name: "anneal.initial_temperature", Value: t, Wrapped: dynamo.ErrParameterBounds}
	}
	if k := c.Anneal.Boltzmann; !(k > 0) || math.IsInf(k, 0) {
		return &dynamo.ParamError{Name: "anneal.boltzmann", Value: k, Wrapped: dynamo.ErrParameterBounds}
	}
	if c.Anneal.StepsPerParticle < 1 {
		return &dynamo.ParamError{Name: "anneal.steps_per_particle", Value: float64(c.Anneal.StepsPerParticle), Wrapped: dynamo.ErrParameterBounds}
	}
	if err := c.Anneal.Moves.Validate(); err != nil {
		return err
	}
	return c.Anneal.Schedule.Validate()
}

// BuildPotential constructs the configured potential, adding the
// dipole-dipole term when enabled.
func (c *Config) BuildPotential() (dynamo.TwoSpinPotential, error) {
	var pot dynamo.TwoSpinPotential
	switch c.Potential {
	case PotentialGayBerne:
		var opts []physics.Option
		if c.Strict {
			opts = append(opts, physics.WithStrict())
		}
		gb, err := physics.NewGayBerne(c.GayBerne, opts...)
		if err != nil {
			return nil, err
		}
		pot = gb
	case PotentialLebwohlLasher:
		pot = physics.NewLebwohlLasher(c.LebwohlLasher.Epsilon0)
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPotential, c.Potential)
	}

	if c.Dipole {
		return physics.Sum{pot, physics.NewDipole()}, nil
	}
	return pot, nil
}

// Params reports the parameters of the configured potential.
func (c *Config) Params() map[string]float64 {
	switch c.Potential {
	case PotentialLebwohlLasher:
		return physics.NewLebwohlLasher(c.LebwohlLasher.Epsilon0).GetParams()
	default:
		return c.GayBerne.Map()
	}
}
