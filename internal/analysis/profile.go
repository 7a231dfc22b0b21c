package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gbsim/internal/dynamo"
)

type ProfileConfig struct {
	Spin1     dynamo.Vector
	Spin2     dynamo.Vector
	Direction dynamo.Vector
	RMin      float64
	RMax      float64
	Steps     int
}

type Sample struct {
	Distance float64
	Energy   float64
}

type Profile struct {
	Samples []Sample
}

// Scan evaluates pot with the second particle at the origin and the first at
// d·Direction for Steps evenly spaced d in [RMin, RMax]. Non-finite energies
// are kept as they are.
func Scan(pot dynamo.TwoSpinPotential, cfg ProfileConfig) (*Profile, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prof := &Profile{Samples: make([]Sample, 0, cfg.Steps)}
	for _, d := range cfg.Distances() {
		s, err := cfg.Sample(pot, d)
		if err != nil {
			return nil, err
		}
		prof.Samples = append(prof.Samples, s)
	}
	return prof, nil
}

func (c ProfileConfig) Validate() error {
	if err := dynamo.CheckDims(c.Spin1, c.Spin2, c.Direction); err != nil {
		return err
	}
	switch {
	case c.Steps < 2:
		return &dynamo.ParamError{Name: "steps", Value: float64(c.Steps), Wrapped: dynamo.ErrParameterBounds}
	case c.RMin <= 0:
		return &dynamo.ParamError{Name: "r_min", Value: c.RMin, Wrapped: dynamo.ErrParameterBounds}
	case c.RMax <= c.RMin:
		return &dynamo.ParamError{Name: "r_max", Value: c.RMax, Wrapped: dynamo.ErrParameterBounds}
	}
	if n := c.Direction.Norm(); n == 0 || math.IsNaN(n) {
		return &dynamo.ParamError{Name: "direction", Value: n, Wrapped: dynamo.ErrParameterBounds}
	}
	return nil
}

// Distances returns the Steps separations of the scan, RMin and RMax included.
func (c ProfileConfig) Distances() []float64 {
	return floats.Span(make([]float64, c.Steps), c.RMin, c.RMax)
}

// Place returns the two locations at separation d: the first particle along
// the unit direction, the second at the origin.
func (c ProfileConfig) Place(d float64) (location1, location2 dynamo.Vector) {
	return c.Direction.Normalize().Scale(d), make(dynamo.Vector, len(c.Direction))
}

// Sample evaluates pot at separation d.
func (c ProfileConfig) Sample(pot dynamo.TwoSpinPotential, d float64) (Sample, error) {
	loc1, loc2 := c.Place(d)
	u, err := pot.Energy(c.Spin1, loc1, c.Spin2, loc2)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Distance: d, Energy: u}, nil
}

func (p *Profile) Distances() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Distance
	}
	return out
}

func (p *Profile) Energies() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Energy
	}
	return out
}

// Minimum returns the lowest finite sample.
func (p *Profile) Minimum() (Sample, bool) {
	best, found := Sample{}, false
	for _, s := range p.Samples {
		if !isFinite(s.Energy) {
			continue
		}
		if !found || s.Energy < best.Energy {
			best, found = s, true
		}
	}
	return best, found
}

// ContactDistance returns the first separation where the energy turns from
// repulsive to attractive, interpolated linearly between samples.
func (p *Profile) ContactDistance() (float64, bool) {
	for i := 0; i+1 < len(p.Samples); i++ {
		a, b := p.Samples[i], p.Samples[i+1]
		if !isFinite(a.Energy) || !isFinite(b.Energy) {
			continue
		}
		if a.Energy > 0 && b.Energy <= 0 {
			return a.Distance + (b.Distance-a.Distance)*a.Energy/(a.Energy-b.Energy), true
		}
	}
	return 0, false
}

// Finite returns the samples whose energy is a finite number.
func (p *Profile) Finite() []Sample {
	out := make([]Sample, 0, len(p.Samples))
	for _, s := range p.Samples {
		if isFinite(s.Energy) {
			out = append(out, s)
		}
	}
	return out
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Below keeps the finite samples with energy at most maxEnergy, which cuts
// the repulsive wall off plots.
func (p *Profile) Below(maxEnergy float64) *Profile {
	out := &Profile{Samples: make([]Sample, 0, len(p.Samples))}
	for _, s := range p.Samples {
		if isFinite(s.Energy) && s.Energy <= maxEnergy {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}
