package lattice

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gbsim/internal/dynamo"
)

// Schedule is the sequence of temperatures an Annealer visits after the
// system's own. At each temperature sweeps repeat until MaxNonImproving
// consecutive sweeps are rejected by the selector, or MaxSteps sweeps
// have run when MaxSteps is positive.
type Schedule struct {
	Temperatures    []float64 `yaml:"temperatures"`
	MaxNonImproving int       `yaml:"max_non_improving"`
	MaxSteps        int       `yaml:"max_steps"`
}

func (s Schedule) Validate() error {
	if s.MaxNonImproving < 1 {
		return &dynamo.ParamError{Name: "schedule.max_non_improving", Value: float64(s.MaxNonImproving), Wrapped: dynamo.ErrParameterBounds}
	}
	if s.MaxSteps < 0 {
		return &dynamo.ParamError{Name: "schedule.max_steps", Value: float64(s.MaxSteps), Wrapped: dynamo.ErrParameterBounds}
	}
	for i, t := range s.Temperatures {
		if !(t >= 0) || math.IsInf(t, 0) {
			return &dynamo.ParamError{Name: fmt.Sprintf("schedule.temperatures[%d]", i), Value: t, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	return nil
}

// Range returns from, from+step, ... stopping before to. It is empty when
// step does not move from towards to.
func Range(from, to, step float64) []float64 {
	if step == 0 || (to-from)*step <= 0 {
		return nil
	}
	n := int(math.Ceil((to-from)/step - 1e-9))
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Step describes one sweep of an anneal. Energy and Variance belong to the
// state kept after the selector ran.
type Step struct {
	Index       int
	Round       int
	Temperature float64
	Energy      float64
	Variance    float64
	Proposed    int
	Accepted    int
	Better      bool
}

type Metric interface {
	Name() string
	Observe(step Step)
	Value() float64
	Reset()
}

// Observer sees the system after every sweep. An error stops the anneal.
type Observer interface {
	OnStep(step Step, sys *System) error
}

// Round summarizes the sweeps run at one temperature.
type Round struct {
	Temperature  float64
	Steps        int
	Improvements int
	Energy       float64
}

type Result struct {
	Initial  Snapshot
	Final    Snapshot
	Rounds   []Round
	Energies []float64
	Metrics  map[string]float64
}

type Annealer struct {
	metropolis *Metropolis
	selector   Selector
	schedule   Schedule
	metrics    []Metric
	observers  []Observer
}

func NewAnnealer(m *Metropolis, sel Selector, schedule Schedule) (*Annealer, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Annealer{metropolis: m, selector: sel, schedule: schedule}, nil
}

func (a *Annealer) AddMetric(m Metric)     { a.metrics = append(a.metrics, m) }
func (a *Annealer) AddObserver(o Observer) { a.observers = append(a.observers, o) }

// Run anneals sys in place, first at sys.Temperature and then through the
// schedule. A sweep the selector rejects is undone. On cancellation the
// partial result is returned with the context error.
func (a *Annealer) Run(ctx context.Context, sys *System) (*Result, error) {
	for _, m := range a.metrics {
		m.Reset()
	}

	cur, err := snapshot(sys)
	if err != nil {
		return nil, err
	}
	result := &Result{Initial: cur, Final: cur, Metrics: make(map[string]float64)}

	temps := append([]float64{sys.Temperature}, a.schedule.Temperatures...)
	index := 0
	for round, temp := range temps {
		sys.Temperature = temp
		r := Round{Temperature: temp, Energy: cur.Energy}
		for nonImproving := 0; nonImproving < a.schedule.MaxNonImproving; {
			if a.schedule.MaxSteps > 0 && r.Steps >= a.schedule.MaxSteps {
				break
			}
			prev := sys.Clone()
			stats, err := a.metropolis.Sweep(ctx, sys)
			if err != nil {
				sys.restore(prev)
				a.finish(result, r, cur)
				return result, err
			}
			next, err := snapshot(sys)
			if err != nil {
				sys.restore(prev)
				a.finish(result, r, cur)
				return result, err
			}

			better := a.selector.Better(cur, next)
			if better {
				cur = next
				nonImproving = 0
				r.Improvements++
			} else {
				sys.restore(prev)
				nonImproving++
			}
			r.Steps++
			r.Energy = cur.Energy

			step := Step{
				Index: index, Round: round, Temperature: temp,
				Energy: cur.Energy, Variance: cur.Variance,
				Proposed: stats.Proposed, Accepted: stats.Accepted, Better: better,
			}
			index++
			result.Energies = append(result.Energies, cur.Energy)
			for _, m := range a.metrics {
				m.Observe(step)
			}
			for _, obs := range a.observers {
				if err := obs.OnStep(step, sys); err != nil {
					a.finish(result, r, cur)
					return result, err
				}
			}
		}
		result.Rounds = append(result.Rounds, r)
	}

	result.Final = cur
	for _, m := range a.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (a *Annealer) finish(result *Result, r Round, cur Snapshot) {
	result.Rounds = append(result.Rounds, r)
	result.Final = cur
	for _, m := range a.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func snapshot(sys *System) (Snapshot, error) {
	e, err := sys.Energy()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Energy: e, Variance: sys.SpinVariance()}, nil
}
