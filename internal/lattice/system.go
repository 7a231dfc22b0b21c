package lattice

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gbsim/internal/dynamo"
)

var ErrEmptyLayout = errors.New("lattice: layout has no sites")

// Layout describes a regular grid of particles. Dims, Spacing and Spin
// share one length, the spatial dimension of the system.
type Layout struct {
	Dims         []int     `yaml:"dims"`
	Spacing      []float64 `yaml:"spacing"`
	Spin         []float64 `yaml:"spin"`
	SpacingStdev float64   `yaml:"spacing_stdev"`
	SpinStdev    float64   `yaml:"spin_stdev"`
}

func (l Layout) Validate() error {
	if len(l.Dims) == 0 {
		return ErrEmptyLayout
	}
	if len(l.Spacing) != len(l.Dims) || len(l.Spin) != len(l.Dims) {
		return &dynamo.DimensionError{Lengths: []int{len(l.Dims), len(l.Spacing), len(l.Spin)}}
	}
	for i, n := range l.Dims {
		if n < 1 {
			return &dynamo.ParamError{Name: fmt.Sprintf("lattice.dims[%d]", i), Value: float64(n), Wrapped: dynamo.ErrParameterBounds}
		}
		if !(l.Spacing[i] > 0) {
			return &dynamo.ParamError{Name: fmt.Sprintf("lattice.spacing[%d]", i), Value: l.Spacing[i], Wrapped: dynamo.ErrParameterBounds}
		}
	}
	spin := dynamo.Vector(l.Spin)
	if !spin.IsValid() || spin.Norm() == 0 {
		return &dynamo.ParamError{Name: "lattice.spin", Value: spin.Norm(), Wrapped: dynamo.ErrParameterBounds}
	}
	if l.SpacingStdev < 0 {
		return &dynamo.ParamError{Name: "lattice.spacing_stdev", Value: l.SpacingStdev, Wrapped: dynamo.ErrParameterBounds}
	}
	if l.SpinStdev < 0 {
		return &dynamo.ParamError{Name: "lattice.spin_stdev", Value: l.SpinStdev, Wrapped: dynamo.ErrParameterBounds}
	}
	return nil
}

// Sites is the number of particles the layout places.
func (l Layout) Sites() int {
	n := 1
	for _, d := range l.Dims {
		n *= d
	}
	return n
}

// System is a set of oriented particles interacting pairwise through pot.
// Origins holds the lattice sites the particles started from.
type System struct {
	Spins       []dynamo.Vector
	Locations   []dynamo.Vector
	Origins     []dynamo.Vector
	Temperature float64

	pot dynamo.TwoSpinPotential
}

// New places one particle per site of layout, the first axis varying
// fastest. Locations and spins are jittered by the layout deviations;
// spins are normalized.
func New(pot dynamo.TwoSpinPotential, layout Layout, temperature float64, rng *rand.Rand) (*System, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	dim := len(layout.Dims)
	n := layout.Sites()
	sys := &System{
		Spins:       make([]dynamo.Vector, 0, n),
		Locations:   make([]dynamo.Vector, 0, n),
		Origins:     make([]dynamo.Vector, 0, n),
		Temperature: temperature,
		pot:         pot,
	}

	base := dynamo.Vector(layout.Spin)
	idx := make([]int, dim)
	for range n {
		site := make(dynamo.Vector, dim)
		for d := range site {
			site[d] = float64(idx[d]) * layout.Spacing[d]
		}
		sys.Origins = append(sys.Origins, site)
		sys.Locations = append(sys.Locations, site.Add(gaussian(rng, dim, layout.SpacingStdev)))
		sys.Spins = append(sys.Spins, base.Add(gaussian(rng, dim, layout.SpinStdev)).Normalize())

		for d := range idx {
			idx[d]++
			if idx[d] < layout.Dims[d] {
				break
			}
			idx[d] = 0
		}
	}
	return sys, nil
}

func gaussian(rng *rand.Rand, dim int, stdev float64) dynamo.Vector {
	v := make(dynamo.Vector, dim)
	if stdev == 0 {
		return v
	}
	for i := range v {
		v[i] = rng.NormFloat64() * stdev
	}
	return v
}

func (s *System) Len() int { return len(s.Spins) }

func (s *System) Dim() int {
	if len(s.Spins) == 0 {
		return 0
	}
	return len(s.Spins[0])
}

func (s *System) Potential() dynamo.TwoSpinPotential { return s.pot }

func (s *System) Clone() *System {
	c := &System{
		Spins:       cloneAll(s.Spins),
		Locations:   cloneAll(s.Locations),
		Origins:     cloneAll(s.Origins),
		Temperature: s.Temperature,
		pot:         s.pot,
	}
	return c
}

// restore copies the particle state of other back into s.
func (s *System) restore(other *System) {
	for i := range s.Spins {
		copy(s.Spins[i], other.Spins[i])
		copy(s.Locations[i], other.Locations[i])
	}
}

func cloneAll(vs []dynamo.Vector) []dynamo.Vector {
	out := make([]dynamo.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// Energy is the sum of the pair energy over every unordered pair.
func (s *System) Energy() (float64, error) {
	total := 0.0
	for i := range s.Spins {
		for j := i + 1; j < len(s.Spins); j++ {
			u, err := s.pot.Energy(s.Spins[i], s.Locations[i], s.Spins[j], s.Locations[j])
			if err != nil {
				return 0, fmt.Errorf("pair %d-%d: %w", i, j, err)
			}
			total += u
		}
	}
	return total, nil
}

// SpinEnergy is the energy of particle i with every other particle.
func (s *System) SpinEnergy(i int) (float64, error) {
	total := 0.0
	for j := range s.Spins {
		if j == i {
			continue
		}
		u, err := s.pot.Energy(s.Spins[i], s.Locations[i], s.Spins[j], s.Locations[j])
		if err != nil {
			return 0, fmt.Errorf("pair %d-%d: %w", i, j, err)
		}
		total += u
	}
	return total, nil
}

// SpinVariance sums the population variance of each spin component. It is
// zero for a perfectly aligned system.
func (s *System) SpinVariance() float64 {
	if len(s.Spins) == 0 {
		return 0
	}
	column := make([]float64, len(s.Spins))
	total := 0.0
	for d := range s.Dim() {
		for i, spin := range s.Spins {
			column[i] = spin[d]
		}
		total += stat.PopVariance(column, nil)
	}
	return total
}

// State is the serializable form of a System.
type State struct {
	Temperature float64     `json:"temperature"`
	Spins       [][]float64 `json:"spins"`
	Locations   [][]float64 `json:"locations"`
	Origins     [][]float64 `json:"origins"`
}

func (s *System) State() State {
	st := State{Temperature: s.Temperature}
	for i := range s.Spins {
		st.Spins = append(st.Spins, s.Spins[i].Clone())
		st.Locations = append(st.Locations, s.Locations[i].Clone())
		st.Origins = append(st.Origins, s.Origins[i].Clone())
	}
	return st
}

// FromState rebuilds a System around pot. A state without origins uses
// its locations.
func FromState(pot dynamo.TwoSpinPotential, st State) (*System, error) {
	if len(st.Spins) == 0 {
		return nil, ErrEmptyLayout
	}
	if len(st.Locations) != len(st.Spins) || (st.Origins != nil && len(st.Origins) != len(st.Spins)) {
		return nil, &dynamo.DimensionError{Lengths: []int{len(st.Spins), len(st.Locations), len(st.Origins)}}
	}
	sys := &System{Temperature: st.Temperature, pot: pot}
	for i := range st.Spins {
		spin, loc := dynamo.Vector(st.Spins[i]).Clone(), dynamo.Vector(st.Locations[i]).Clone()
		origin := loc.Clone()
		if st.Origins != nil {
			origin = dynamo.Vector(st.Origins[i]).Clone()
		}
		if err := dynamo.CheckDims(spin, loc, origin, sys.first(spin)); err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
		sys.Spins = append(sys.Spins, spin)
		sys.Locations = append(sys.Locations, loc)
		sys.Origins = append(sys.Origins, origin)
	}
	return sys, nil
}

func (s *System) first(fallback dynamo.Vector) dynamo.Vector {
	if len(s.Spins) == 0 {
		return fallback
	}
	return s.Spins[0]
}
