package metrics

import "github.com/san-kum/gbsim/internal/lattice"

// Acceptance is the fraction of Metropolis moves accepted.
type Acceptance struct {
	name     string
	accepted int
	proposed int
}

func NewAcceptance() *Acceptance {
	return &Acceptance{name: "acceptance"}
}

func (a *Acceptance) Name() string { return a.name }

func (a *Acceptance) Observe(step lattice.Step) {
	a.accepted += step.Accepted
	a.proposed += step.Proposed
}

func (a *Acceptance) Value() float64 {
	if a.proposed == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.proposed)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.proposed = 0
}

// Improvement is the fraction of sweeps the selector kept.
type Improvement struct {
	name   string
	kept   int
	sweeps int
}

func NewImprovement() *Improvement {
	return &Improvement{name: "improvement"}
}

func (i *Improvement) Name() string { return i.name }

func (i *Improvement) Observe(step lattice.Step) {
	i.sweeps++
	if step.Better {
		i.kept++
	}
}

func (i *Improvement) Value() float64 {
	if i.sweeps == 0 {
		return 0
	}
	return float64(i.kept) / float64(i.sweeps)
}

func (i *Improvement) Reset() {
	i.kept = 0
	i.sweeps = 0
}

// All returns one of each metric.
func All() []lattice.Metric {
	return []lattice.Metric{NewEnergy(), NewEnergyDrift(), NewAcceptance(), NewImprovement()}
}
