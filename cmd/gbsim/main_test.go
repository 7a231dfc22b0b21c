package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/gbsim/internal/analysis"
	"github.com/san-kum/gbsim/internal/config"
	"github.com/san-kum/gbsim/internal/lattice"
	"github.com/san-kum/gbsim/internal/physics"
	"github.com/san-kum/gbsim/internal/storage"
)

// annealFlags registers the anneal overrides the way main does.
func annealFlags() *cobra.Command {
	cmd := &cobra.Command{Use: "anneal"}
	cmd.Flags().StringVar(&mode, "mode", "", "")
	cmd.Flags().Int64Var(&seed, "seed", 0, "")
	cmd.Flags().IntVar(&sweeps, "sweeps", 0, "")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "")
	cmd.Flags().Float64SliceVar(&temperatures, "temperatures", nil, "")
	cmd.Flags().BoolVar(&strict, "strict", false, "")
	return cmd
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"kappa=2,3, 4", "miu=1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "kappa" || names[1] != "miu" {
		t.Errorf("unexpected names %v", names)
	}
	if len(ranges[0]) != 3 || ranges[0][2] != 4 || ranges[1][0] != 1 {
		t.Errorf("unexpected ranges %v", ranges)
	}

	for _, bad := range []string{"kappa", "=1,2", "kappa=1,x"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestClipLevel(t *testing.T) {
	prof := &analysis.Profile{Samples: []analysis.Sample{
		{Distance: 1, Energy: 10},
		{Distance: 2, Energy: -2},
		{Distance: 3, Energy: -1},
	}}

	if got := clipLevel(prof, 5); got != 5 {
		t.Errorf("explicit clip = %v, want 5", got)
	}
	if got := clipLevel(prof, 0); got != 2 {
		t.Errorf("auto clip = %v, want 2", got)
	}

	repulsive := &analysis.Profile{Samples: []analysis.Sample{{Distance: 1, Energy: 3}}}
	if got := clipLevel(repulsive, 0); !math.IsInf(got, 1) {
		t.Errorf("clip without a well = %v, want +Inf", got)
	}
}

func TestFitOptionsFollowStrict(t *testing.T) {
	cfg := config.DefaultConfig()
	gb, err := physics.NewGayBerneFromParams(cfg.GayBerne.Map(), fitOptions(cfg)...)
	if err != nil {
		t.Fatal(err)
	}
	if gb.Strict() {
		t.Error("fit candidates should be lenient by default")
	}

	cfg.Strict = true
	gb, err = physics.NewGayBerneFromParams(cfg.GayBerne.Map(), fitOptions(cfg)...)
	if err != nil {
		t.Fatal(err)
	}
	if !gb.Strict() {
		t.Error("strict config should give strict fit candidates")
	}
}

func TestLoadConfigAnnealOverrides(t *testing.T) {
	cmd := annealFlags()
	for name, value := range map[string]string{
		"mode":         "heat",
		"seed":         "42",
		"sweeps":       "7",
		"temperature":  "3.5",
		"temperatures": "2,1",
		"strict":       "true",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}

	c, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	a := c.Anneal
	if a.Mode != "heat" || a.Seed != 42 || a.StepsPerParticle != 7 || a.InitialTemperature != 3.5 || !c.Strict {
		t.Errorf("overrides not applied: %+v", a)
	}
	if len(a.Schedule.Temperatures) != 2 || a.Schedule.Temperatures[1] != 1 {
		t.Errorf("unexpected schedule %v", a.Schedule.Temperatures)
	}

	plain, err := loadConfig(annealFlags())
	if err != nil {
		t.Fatal(err)
	}
	if plain.Anneal.Mode != lattice.ModeCool || plain.Anneal.Seed != config.DefaultAnneal().Seed {
		t.Errorf("untouched flags should keep the defaults, got %+v", plain.Anneal)
	}
}

func TestStartingSystemFromState(t *testing.T) {
	dataDir = t.TempDir()
	cfg = config.DefaultConfig()
	t.Cleanup(func() { fromState, cfg = "", nil })

	pot, err := cfg.BuildPotential()
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(dataDir)
	stored, err := lattice.New(pot, lattice.Layout{Dims: []int{2, 1, 1}, Spacing: []float64{4, 1, 1}, Spin: []float64{1, 0, 0}}, 0.25, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SaveState("pair", stored.State()); err != nil {
		t.Fatal(err)
	}

	fromState = "pair"
	cmd := annealFlags()
	sys, err := startingSystem(cmd, st, pot, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if sys.Len() != 2 || sys.Temperature != 0.25 {
		t.Errorf("expected the stored pair at T=0.25, got %d particles at %f", sys.Len(), sys.Temperature)
	}

	if err := cmd.Flags().Set("temperature", "1.5"); err != nil {
		t.Fatal(err)
	}
	cfg.Anneal.InitialTemperature = 1.5
	sys, err = startingSystem(cmd, st, pot, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if sys.Temperature != 1.5 {
		t.Errorf("--temperature should override the stored temperature, got %f", sys.Temperature)
	}

	fromState = "missing"
	if _, err := startingSystem(cmd, st, pot, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected an error for a missing state")
	}
}

func TestAnnealRowsSortMetrics(t *testing.T) {
	res := &lattice.Result{Metrics: map[string]float64{"b": 2, "a": 1}}
	sys := &lattice.System{}
	rows := annealRows(res, sys)
	n := len(rows)
	if rows[n-2].Label != "a" || rows[n-1].Label != "b" {
		t.Errorf("metrics should be sorted, got %v", rows[n-2:])
	}
}
