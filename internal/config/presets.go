package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/san-kum/gbsim/internal/lattice"
	"github.com/san-kum/gbsim/internal/physics"
)

var Presets = map[string]map[string]*Config{
	PotentialGayBerne: {
		"reduced": {
			Potential: PotentialGayBerne,
			GayBerne:  physics.GayBerneParams{Epsilon0: 1.0, SigmaS: 1.0, Miu: 2.0, Ni: 1.0, Kappa: 3.0, KappaTag: 5.0},
			Profile:   ProfileConfig{Orientation: "end_to_end", RMin: 2.5, RMax: 6.0, Steps: 200},
		},
		"strict": {
			Potential: PotentialGayBerne, Strict: true,
			GayBerne: physics.GayBerneParams{Epsilon0: 1.0, SigmaS: 1.0, Miu: 2.0, Ni: 1.0, Kappa: 3.0, KappaTag: 5.0},
			Profile:  ProfileConfig{Orientation: "side_by_side", RMin: 0.8, RMax: 4.0, Steps: 200},
		},
		"lc_3d": {
			Potential: PotentialGayBerne,
			GayBerne:  physics.GayBerneParams{Epsilon0: physics.Boltzmann, SigmaS: 0.005, Miu: 1.0, Ni: 3.0, Kappa: 3.0, KappaTag: 5.0},
			Profile:   ProfileConfig{Orientation: "side_by_side", RMin: 0.0045, RMax: 0.02, Steps: 200},
			Lattice: lattice.Layout{
				Dims:      []int{5, 5, 5},
				Spacing:   []float64{0.006, 0.006, 0.0165},
				Spin:      []float64{0, 0, 1},
				SpinStdev: 0.05,
			},
			Anneal: AnnealConfig{
				Mode:               lattice.ModeCool,
				InitialTemperature: 4.0,
				Boltzmann:          physics.Boltzmann,
				StepsPerParticle:   100,
				Seed:               1,
				Moves:              lattice.Moves{SpinStdev: 0.05, SpacingStdev: 0.0005, Cutoff: 0.0025},
				Schedule: lattice.Schedule{
					Temperatures:    append(lattice.Range(4.0, 1.5, -0.05), lattice.Range(1.5, 0.01, -0.01)...),
					MaxNonImproving: 3,
					MaxSteps:        10,
				},
			},
		},
		"lc_3d_dipole": {
			Potential: PotentialGayBerne, Dipole: true,
			GayBerne: physics.GayBerneParams{Epsilon0: physics.Boltzmann, SigmaS: 0.005, Miu: 1.0, Ni: 3.0, Kappa: 3.0, KappaTag: 5.0},
			Profile:  ProfileConfig{Orientation: "side_by_side", RMin: 0.0045, RMax: 0.02, Steps: 200},
		},
	},
	PotentialLebwohlLasher: {
		"nematic": {
			Potential:     PotentialLebwohlLasher,
			LebwohlLasher: LebwohlLasherConfig{Epsilon0: -1.0},
			Profile:       ProfileConfig{Orientation: "side_by_side", RMin: 0.5, RMax: 3.0, Steps: 50},
		},
	},
}

// GetPreset returns a copy of the named preset on top of the defaults, or
// nil if it does not exist.
func GetPreset(potential, name string) *Config {
	presets, ok := Presets[potential]
	if !ok {
		return nil
	}
	p, ok := presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Potential = p.Potential
	cfg.Strict = p.Strict
	cfg.Dipole = p.Dipole
	cfg.GayBerne = p.GayBerne
	if p.LebwohlLasher.Epsilon0 != 0 {
		cfg.LebwohlLasher = p.LebwohlLasher
	}
	cfg.Profile = p.Profile
	if len(p.Lattice.Dims) > 0 {
		cfg.Lattice = p.Lattice
		cfg.Lattice.Dims = slices.Clone(p.Lattice.Dims)
		cfg.Lattice.Spacing = slices.Clone(p.Lattice.Spacing)
		cfg.Lattice.Spin = slices.Clone(p.Lattice.Spin)
	}
	if p.Anneal.Mode != "" {
		cfg.Anneal = p.Anneal
		cfg.Anneal.Schedule.Temperatures = slices.Clone(p.Anneal.Schedule.Temperatures)
	}
	return cfg
}

func ListPresets(potential string) []string {
	presets, ok := Presets[potential]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePreset accepts "potential/name" or a bare Gay-Berne preset name.
func ResolvePreset(ref string) (*Config, error) {
	potential, name := PotentialGayBerne, ref
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		potential, name = ref[:i], ref[i+1:]
	}
	cfg := GetPreset(potential, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q (available for %s: %v)", ref, potential, ListPresets(potential))
	}
	return cfg, nil
}
