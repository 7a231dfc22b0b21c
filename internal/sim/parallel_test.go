package sim

import (
	"context"
	"testing"

	"github.com/san-kum/gbsim/internal/analysis"
	"github.com/san-kum/gbsim/internal/physics"
)

func TestEnsembleOrientations(t *testing.T) {
	gb, err := physics.NewGayBerne(physics.DefaultGayBerneParams())
	if err != nil {
		t.Fatal(err)
	}
	sim := New(gb)
	obs := &countingObserver{}
	sim.AddObserver(obs)

	jobs := JobsFor(analysis.Orientations(), 0.5, 6, 50)
	results, err := NewEnsemble(sim).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		if r.Name != jobs[i].Name {
			t.Errorf("result %d is %s, want %s", i, r.Name, jobs[i].Name)
		}
		if obs.count[r.Name] != 50 {
			t.Errorf("%s: expected 50 observations, got %d", r.Name, obs.count[r.Name])
		}

		single, err := analysis.Scan(gb, jobs[i].Config)
		if err != nil {
			t.Fatal(err)
		}
		for k, s := range r.Profile.Samples {
			want := single.Samples[k]
			if s.Distance != want.Distance {
				t.Fatalf("%s: distance %v, want %v", r.Name, s.Distance, want.Distance)
			}
			if s.Energy != want.Energy && !(s.Energy != s.Energy && want.Energy != want.Energy) {
				t.Errorf("%s: energy %v at %v, want %v", r.Name, s.Energy, s.Distance, want.Energy)
			}
		}
	}
}

func TestEnsembleFailure(t *testing.T) {
	sim := New(failingPotential{at: 1.5})
	jobs := []Job{xJob("a", 100), xJob("b", 100)}

	if _, err := NewEnsemble(sim).Run(context.Background(), jobs); err == nil || err.Error() == context.Canceled.Error() {
		t.Fatalf("expected the potential's error, got %v", err)
	}
}

func TestEnsembleEmpty(t *testing.T) {
	results, err := NewEnsemble(New(linearPotential{})).Run(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("expected no results and no error, got %v, %v", results, err)
	}
}
