package lattice

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/san-kum/gbsim/internal/dynamo"
)

// Moves bounds the trial displacements of a Metropolis sweep. A zero
// deviation freezes that degree of freedom; a zero Cutoff leaves
// locations unbounded.
type Moves struct {
	SpinStdev    float64 `yaml:"spin_stdev"`
	SpacingStdev float64 `yaml:"spacing_stdev"`
	// Cutoff is the largest distance a particle may wander from its origin.
	Cutoff float64 `yaml:"cutoff"`
}

func (m Moves) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"moves.spin_stdev", m.SpinStdev}, {"moves.spacing_stdev", m.SpacingStdev}, {"moves.cutoff", m.Cutoff}} {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return &dynamo.ParamError{Name: f.name, Value: f.v, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	return nil
}

// SweepStats counts the trial moves of one sweep.
type SweepStats struct {
	Proposed int
	Accepted int
}

type Metropolis struct {
	moves            Moves
	stepsPerParticle int
	boltzmann        float64
	rng              *rand.Rand
}

// NewMetropolis builds a sampler that tries stepsPerParticle moves on each
// particle per sweep. Moves are accepted with probability
// min(1, exp(-dE/(boltzmann*T))).
func NewMetropolis(moves Moves, stepsPerParticle int, boltzmann float64, rng *rand.Rand) (*Metropolis, error) {
	if err := moves.Validate(); err != nil {
		return nil, err
	}
	if stepsPerParticle < 1 {
		return nil, &dynamo.ParamError{Name: "steps_per_particle", Value: float64(stepsPerParticle), Wrapped: dynamo.ErrParameterBounds}
	}
	if !(boltzmann > 0) || math.IsInf(boltzmann, 0) {
		return nil, &dynamo.ParamError{Name: "boltzmann", Value: boltzmann, Wrapped: dynamo.ErrParameterBounds}
	}
	return &Metropolis{moves: moves, stepsPerParticle: stepsPerParticle, boltzmann: boltzmann, rng: rng}, nil
}

// Sweep visits every particle in order. A move whose energy change is NaN,
// or that a strict potential reports as degenerate, is rejected.
func (m *Metropolis) Sweep(ctx context.Context, sys *System) (SweepStats, error) {
	var stats SweepStats
	dim := sys.Dim()
	for i := range sys.Spins {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for range m.stepsPerParticle {
			oldSpin, oldLoc := sys.Spins[i], sys.Locations[i]
			spin := oldSpin.Add(gaussian(m.rng, dim, m.moves.SpinStdev)).Normalize()
			loc := oldLoc.Add(gaussian(m.rng, dim, m.moves.SpacingStdev))
			stats.Proposed++
			if !spin.IsValid() {
				continue
			}
			if m.moves.Cutoff > 0 && loc.Sub(sys.Origins[i]).Norm() > m.moves.Cutoff {
				continue
			}

			before, err := sys.SpinEnergy(i)
			if err != nil && !errors.Is(err, dynamo.ErrDegenerate) {
				return stats, err
			}
			sys.Spins[i], sys.Locations[i] = spin, loc
			after, err2 := sys.SpinEnergy(i)
			if err2 != nil && !errors.Is(err2, dynamo.ErrDegenerate) {
				sys.Spins[i], sys.Locations[i] = oldSpin, oldLoc
				return stats, err2
			}

			if err == nil && err2 == nil && m.accept(after-before, sys.Temperature) {
				stats.Accepted++
				continue
			}
			sys.Spins[i], sys.Locations[i] = oldSpin, oldLoc
		}
	}
	return stats, nil
}

// accept takes every downhill move. Uphill moves need a positive
// temperature.
func (m *Metropolis) accept(dE, temperature float64) bool {
	switch {
	case math.IsNaN(dE):
		return false
	case dE <= 0:
		return true
	case temperature <= 0:
		return false
	}
	return m.rng.Float64() < math.Exp(-dE/(m.boltzmann*temperature))
}
