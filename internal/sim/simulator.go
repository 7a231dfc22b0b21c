package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gbsim/internal/analysis"
	"github.com/san-kum/gbsim/internal/dynamo"
)

// Simulator drives a potential through energy scans. The potential is shared
// read-only, so one Simulator may run several scans at once.
type Simulator struct {
	pot       dynamo.TwoSpinPotential
	observers []Observer
}

func New(pot dynamo.TwoSpinPotential) *Simulator {
	return &Simulator{
		pot:       pot,
		observers: make([]Observer, 0),
	}
}

// AddObserver must be called before any Run.
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, job Job) (*Result, error) {
	cfg := job.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}

	result := &Result{
		Name:    job.Name,
		Profile: &analysis.Profile{Samples: make([]analysis.Sample, 0, cfg.Steps)},
	}

	for _, d := range cfg.Distances() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample, err := cfg.Sample(s.pot, d)
		if err != nil {
			return result, fmt.Errorf("%s at %g: %w", job.Name, d, err)
		}
		if math.IsNaN(sample.Energy) || math.IsInf(sample.Energy, 0) {
			result.Nonfinite++
		}

		result.Profile.Samples = append(result.Profile.Samples, sample)
		for _, obs := range s.observers {
			obs.OnSample(job.Name, sample)
		}
	}

	return result, nil
}
