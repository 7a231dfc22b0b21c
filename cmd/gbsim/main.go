package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gbsim/internal/analysis"
	"github.com/san-kum/gbsim/internal/config"
	"github.com/san-kum/gbsim/internal/dynamo"
	"github.com/san-kum/gbsim/internal/export"
	"github.com/san-kum/gbsim/internal/lattice"
	"github.com/san-kum/gbsim/internal/metrics"
	"github.com/san-kum/gbsim/internal/observability"
	"github.com/san-kum/gbsim/internal/optim"
	"github.com/san-kum/gbsim/internal/physics"
	"github.com/san-kum/gbsim/internal/sim"
	"github.com/san-kum/gbsim/internal/storage"
	"github.com/san-kum/gbsim/internal/viz"
)

const allOrientations = "all"

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	// Pair overrides
	spin1 []float64
	loc1  []float64
	spin2 []float64
	loc2  []float64
	// Evaluation
	strict  bool
	verbose bool
	// Profile overrides
	orientation string
	rMin        float64
	rMax        float64
	steps       int
	clip        float64
	save        bool
	// Fitting
	grid        []string
	targetDepth float64
	// SVG export
	svgOut    string
	svgWidth  int
	svgHeight int
	// Annealing
	mode         string
	seed         int64
	sweeps       int
	temperature  float64
	temperatures []float64
	xyzDir       string
	fromState    string
	saveState    string

	// cfg is resolved once per invocation, before any command runs.
	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gbsim",
		Short:         "Gay-Berne pair potential lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = c
			l, err := observability.NewStderr(cfg.Logger)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gbsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as potential/name (bare names are gay_berne)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate the potential for one pair",
		Args:  cobra.NoArgs,
		RunE:  evalPair,
	}
	evalCmd.Flags().Float64SliceVar(&spin1, "spin1", nil, "orientation of the first particle")
	evalCmd.Flags().Float64SliceVar(&loc1, "loc1", nil, "location of the first particle")
	evalCmd.Flags().Float64SliceVar(&spin2, "spin2", nil, "orientation of the second particle")
	evalCmd.Flags().Float64SliceVar(&loc2, "loc2", nil, "location of the second particle")
	evalCmd.Flags().BoolVar(&strict, "strict", false, "report degenerate geometry as an error")
	evalCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the Gay-Berne term breakdown")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "print potential parameters",
		Args:  cobra.NoArgs,
		RunE:  showParams,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "scan energy against separation",
		Args:  cobra.NoArgs,
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&orientation, "orientation", "", "end_to_end, side_by_side, cross, t_shape or all")
	profileCmd.Flags().Float64Var(&rMin, "rmin", 0, "smallest separation")
	profileCmd.Flags().Float64Var(&rMax, "rmax", 0, "largest separation")
	profileCmd.Flags().IntVar(&steps, "steps", 0, "number of samples")
	profileCmd.Flags().Float64Var(&clip, "clip", 0, "highest energy to plot (0 mirrors the well depth)")
	profileCmd.Flags().BoolVar(&save, "save", false, "store the profile")
	profileCmd.Flags().BoolVar(&strict, "strict", false, "report degenerate geometry as an error")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "grid-search Gay-Berne parameters for a target well depth",
		Args:  cobra.NoArgs,
		RunE:  fitParams,
	}
	fitCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values as name=v1,v2,... (repeatable)")
	fitCmd.Flags().Float64Var(&targetDepth, "target-depth", 0, "well depth to match")
	fitCmd.Flags().StringVar(&orientation, "orientation", "", "orientation whose well is fitted")
	fitCmd.Flags().Float64Var(&rMin, "rmin", 0, "smallest separation")
	fitCmd.Flags().Float64Var(&rMax, "rmax", 0, "largest separation")
	fitCmd.Flags().IntVar(&steps, "steps", 0, "number of samples")
	fitCmd.Flags().BoolVar(&strict, "strict", false, "discard candidates with degenerate geometry")
	_ = fitCmd.MarkFlagRequired("grid")
	_ = fitCmd.MarkFlagRequired("target-depth")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored profiles",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&clip, "clip", 0, "highest energy to plot (0 mirrors the well depth)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored profile to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&clip, "clip", 0, "highest energy to draw (0 mirrors the well depth)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 500, "image height")

	annealCmd := &cobra.Command{
		Use:   "anneal",
		Short: "Monte Carlo anneal a lattice of particles",
		Args:  cobra.NoArgs,
		RunE:  runAnneal,
	}
	annealCmd.Flags().StringVar(&mode, "mode", "", "cool, heat, hit or equilibrate")
	annealCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	annealCmd.Flags().IntVar(&sweeps, "sweeps", 0, "trial moves per particle per sweep")
	annealCmd.Flags().Float64Var(&temperature, "temperature", 0, "starting temperature")
	annealCmd.Flags().Float64SliceVar(&temperatures, "temperatures", nil, "temperatures visited after the first")
	annealCmd.Flags().StringVar(&xyzDir, "xyz", "", "write an XYZ snapshot here for every kept sweep")
	annealCmd.Flags().StringVar(&fromState, "from-state", "", "start from a stored state instead of a fresh lattice")
	annealCmd.Flags().StringVar(&saveState, "save-state", "", "store the final state under this name")
	annealCmd.Flags().BoolVar(&strict, "strict", false, "report degenerate geometry as an error")

	statesCmd := &cobra.Command{
		Use:   "states",
		Short: "list stored lattice states",
		Args:  cobra.NoArgs,
		RunE:  listStates,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [potential]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			potentials := []string{config.PotentialGayBerne, config.PotentialLebwohlLasher}
			if len(args) > 0 {
				potentials = args
			}
			for _, pot := range potentials {
				presets := config.ListPresets(pot)
				if len(presets) == 0 {
					fmt.Printf("no presets for potential: %s\n", pot)
					continue
				}
				fmt.Printf("presets for %s:\n", pot)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(evalCmd, paramsCmd, profileCmd, fitCmd, annealCmd, statesCmd, listCmd, plotCmd, exportSVGCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.Warning.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// loadConfig resolves --preset, then --config, then the defaults, and
// applies the flags that override them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case preset != "":
		cfg, err = config.ResolvePreset(preset)
	case configFile != "":
		cfg, err = config.Load(configFile)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if flags.Lookup("strict") != nil && flags.Changed("strict") {
		cfg.Strict = strict
	}
	overrides := []struct {
		name string
		src  []float64
		dst  *[]float64
	}{
		{"spin1", spin1, &cfg.Pair.Spin1},
		{"loc1", loc1, &cfg.Pair.Location1},
		{"spin2", spin2, &cfg.Pair.Spin2},
		{"loc2", loc2, &cfg.Pair.Location2},
	}
	for _, o := range overrides {
		if flags.Lookup(o.name) != nil && flags.Changed(o.name) {
			*o.dst = o.src
		}
	}
	if flags.Lookup("orientation") != nil {
		if flags.Changed("orientation") {
			cfg.Profile.Orientation = orientation
		}
		if flags.Changed("rmin") {
			cfg.Profile.RMin = rMin
		}
		if flags.Changed("rmax") {
			cfg.Profile.RMax = rMax
		}
		if flags.Changed("steps") {
			cfg.Profile.Steps = steps
		}
	}
	if flags.Lookup("mode") != nil {
		if flags.Changed("mode") {
			cfg.Anneal.Mode = mode
		}
		if flags.Changed("seed") {
			cfg.Anneal.Seed = seed
		}
		if flags.Changed("sweeps") {
			cfg.Anneal.StepsPerParticle = sweeps
		}
		if flags.Changed("temperature") {
			cfg.Anneal.InitialTemperature = temperature
		}
		if flags.Changed("temperatures") {
			cfg.Anneal.Schedule.Temperatures = temperatures
		}
	}
	return cfg, nil
}

func evalPair(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	pot, err := cfg.BuildPotential()
	if err != nil {
		return fmt.Errorf("build potential: %w", err)
	}

	s1, l1, s2, l2 := cfg.PairVectors()
	logger.Debug("evaluating pair",
		zap.String("potential", cfg.Potential),
		zap.Float64s("spin1", s1), zap.Float64s("location1", l1),
		zap.Float64s("spin2", s2), zap.Float64s("location2", l2),
		zap.Bool("strict", cfg.Strict))

	energy, err := pot.Energy(s1, l1, s2, l2)
	if err != nil {
		var evalErr *dynamo.EvalError
		if errors.As(err, &evalErr) {
			logger.Warn("degenerate configuration", zap.String("term", evalErr.Term), zap.Float64("value", evalErr.Value))
		}
		return fmt.Errorf("evaluate: %w", err)
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		logger.Warn("non-finite energy", zap.Float64("energy", energy))
	}

	rows := []viz.Row{
		{Label: "potential", Value: cfg.Potential},
		{Label: "energy", Value: formatFloat(energy)},
	}
	if cfg.Dipole {
		rows = append(rows, viz.Row{Label: "dipole", Value: "on"})
	}
	fmt.Print(viz.Report("pair energy", rows))

	if verbose {
		gb := gayBerneOf(pot)
		if gb == nil {
			fmt.Println(viz.Subtle.Render("no Gay-Berne term to break down"))
			return nil
		}
		t, err := gb.Breakdown(s1, l1, s2, l2)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(viz.Report("gay-berne terms", []viz.Row{
			{Label: "a", Value: formatFloat(t.A)},
			{Label: "b", Value: formatFloat(t.B)},
			{Label: "c", Value: formatFloat(t.C)},
			{Label: "distance", Value: formatFloat(t.Distance)},
			{Label: "sigma", Value: formatFloat(t.Sigma)},
			{Label: "R", Value: formatFloat(t.R)},
			{Label: "epsilon_ni", Value: formatFloat(t.EpsilonNi)},
			{Label: "epsilon_tag_miu", Value: formatFloat(t.EpsilonTagMiu)},
			{Label: "epsilon", Value: formatFloat(t.Epsilon)},
			{Label: "energy", Value: formatFloat(t.Energy)},
		}))
	}
	return nil
}

func gayBerneOf(pot dynamo.TwoSpinPotential) *physics.GayBerne {
	switch p := pot.(type) {
	case *physics.GayBerne:
		return p
	case physics.Sum:
		for _, term := range p {
			if gb, ok := term.(*physics.GayBerne); ok {
				return gb
			}
		}
	}
	return nil
}

func showParams(cmd *cobra.Command, args []string) error {

	params := cfg.Params()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]viz.Row, 0, len(names)+2)
	for _, name := range names {
		rows = append(rows, viz.Row{Label: name, Value: formatFloat(params[name])})
	}

	if cfg.Potential == config.PotentialGayBerne {
		gb, err := physics.NewGayBerne(cfg.GayBerne)
		if err != nil {
			return err
		}
		rows = append(rows,
			viz.Row{Label: "chi", Value: formatFloat(gb.Chi())},
			viz.Row{Label: "chi_tag", Value: formatFloat(gb.ChiTag())},
		)
	}

	fmt.Print(viz.Report(cfg.Potential, rows))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	pot, err := cfg.BuildPotential()
	if err != nil {
		return fmt.Errorf("build potential: %w", err)
	}

	var orientations []analysis.Orientation
	if cfg.Profile.Orientation == allOrientations {
		orientations = analysis.Orientations()
	} else {
		o, ok := analysis.LookupOrientation(cfg.Profile.Orientation)
		if !ok {
			return fmt.Errorf("unknown orientation %q (available: %v)", cfg.Profile.Orientation, analysis.OrientationNames())
		}
		orientations = []analysis.Orientation{o}
	}

	jobs := sim.JobsFor(orientations, cfg.Profile.RMin, cfg.Profile.RMax, cfg.Profile.Steps)
	logger.Info("scanning",
		zap.String("potential", cfg.Potential),
		zap.Int("orientations", len(jobs)),
		zap.Float64("r_min", cfg.Profile.RMin),
		zap.Float64("r_max", cfg.Profile.RMax),
		zap.Int("steps", cfg.Profile.Steps))

	results, err := sim.NewEnsemble(sim.New(pot)).Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i, r := range results {
		if i > 0 {
			fmt.Println(viz.Separator(80))
			fmt.Println()
		}
		if r.Nonfinite > 0 {
			logger.Warn("non-finite samples", zap.String("orientation", r.Name), zap.Int("count", r.Nonfinite))
		}

		fmt.Print(viz.Report(r.Name, summaryRows(r.Profile)))
		fmt.Println(plotProfile(r.Profile, r.Name, clip))
		fmt.Println()

		if st != nil {
			id, err := st.Save(storage.RunMetadata{
				Potential:   cfg.Potential,
				Orientation: r.Name,
				Params:      cfg.Params(),
				Strict:      cfg.Strict,
				Dipole:      cfg.Dipole,
				RMin:        cfg.Profile.RMin,
				RMax:        cfg.Profile.RMax,
			}, r.Profile)
			if err != nil {
				return err
			}
			logger.Info("saved run", zap.String("id", id), zap.String("dir", dataDir))
			fmt.Printf("saved: %s\n\n", id)
		}
	}
	return nil
}

func fitParams(cmd *cobra.Command, args []string) error {
	if cfg.Potential != config.PotentialGayBerne {
		return fmt.Errorf("fit needs the %s potential, got %s", config.PotentialGayBerne, cfg.Potential)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o, ok := analysis.LookupOrientation(cfg.Profile.Orientation)
	if !ok {
		return fmt.Errorf("unknown orientation %q (available: %v)", cfg.Profile.Orientation, analysis.OrientationNames())
	}

	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	base := cfg.GayBerne.Map()
	for _, name := range names {
		if _, ok := base[name]; !ok {
			return fmt.Errorf("grid: unknown parameter %q", name)
		}
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	logger.Info("fitting",
		zap.Strings("params", names),
		zap.Int("candidates", search.Size()),
		zap.String("orientation", o.Name),
		zap.Float64("target_depth", targetDepth))

	if cfg.Dipole {
		logger.Warn("fit ignores the dipole term", zap.String("potential", cfg.Potential))
	}
	scan := o.Config(cfg.Profile.RMin, cfg.Profile.RMax, cfg.Profile.Steps)
	res, err := search.Search(cmd.Context(), base, optim.WellDepthObjective(scan, targetDepth, fitOptions(cfg)...))
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		logger.Warn("candidates discarded", zap.Int("failed", res.Failed), zap.Int("evaluated", res.Evaluated))
	}

	rows := make([]viz.Row, 0, len(names)+2)
	for _, name := range names {
		rows = append(rows, viz.Row{Label: name, Value: formatFloat(res.Params[name])})
	}
	rows = append(rows,
		viz.Row{Label: "depth error", Value: formatFloat(res.Score)},
		viz.Row{Label: "evaluated", Value: strconv.Itoa(res.Evaluated)},
	)
	fmt.Print(viz.Report("best fit: "+o.Name, rows))
	return nil
}

// fitOptions carries the evaluation mode of cfg into each fitted candidate.
func fitOptions(cfg *config.Config) []physics.Option {
	if cfg.Strict {
		return []physics.Option{physics.WithStrict()}
	}
	return nil
}

// parseGrid reads name=v1,v2,... specs in flag order.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("grid %q: expected name=v1,v2,...", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runAnneal(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateAnneal(); err != nil {
		return err
	}
	pot, err := cfg.BuildPotential()
	if err != nil {
		return fmt.Errorf("build potential: %w", err)
	}

	st := storage.New(dataDir)
	rng := rand.New(rand.NewSource(cfg.Anneal.Seed))
	sys, err := startingSystem(cmd, st, pot, rng)
	if err != nil {
		return err
	}

	mp, err := lattice.NewMetropolis(cfg.Anneal.Moves, cfg.Anneal.StepsPerParticle, cfg.Anneal.Boltzmann, rng)
	if err != nil {
		return err
	}
	sel, err := lattice.SelectorFor(cfg.Anneal.Mode)
	if err != nil {
		return err
	}
	annealer, err := lattice.NewAnnealer(mp, sel, cfg.Anneal.Schedule)
	if err != nil {
		return err
	}
	for _, m := range metrics.All() {
		annealer.AddMetric(m)
	}
	annealer.AddObserver(stepLogger{logger})
	if xyzDir != "" {
		rec, err := lattice.NewXYZRecorder(xyzDir)
		if err != nil {
			return err
		}
		if err := rec.Record(sys, fmt.Sprintf("initial T=%g", sys.Temperature)); err != nil {
			return err
		}
		annealer.AddObserver(rec)
	}

	logger.Info("annealing",
		zap.String("mode", cfg.Anneal.Mode),
		zap.Int("particles", sys.Len()),
		zap.Float64("temperature", sys.Temperature),
		zap.Int("rounds", len(cfg.Anneal.Schedule.Temperatures)+1),
		zap.Int64("seed", cfg.Anneal.Seed))
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d particles from T=%g", cfg.Anneal.Mode, sys.Len(), sys.Temperature)))
	fmt.Println()

	res, runErr := annealer.Run(cmd.Context(), sys)
	if res == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("anneal stopped early", zap.Error(runErr), zap.Int("sweeps", len(res.Energies)))
	}

	fmt.Print(viz.Report("anneal", annealRows(res, sys)))
	fmt.Println()
	printRounds(res.Rounds)
	if len(res.Energies) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Energies,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("energy per sweep"),
		))
	}

	if saveState != "" {
		if err := st.SaveState(saveState, sys.State()); err != nil {
			return err
		}
		logger.Info("saved state", zap.String("name", saveState), zap.String("dir", dataDir))
		fmt.Printf("\nsaved state: %s\n", saveState)
	}
	return runErr
}

// startingSystem loads --from-state when given, otherwise lays out a fresh
// lattice. A stored state keeps its temperature unless --temperature is set.
func startingSystem(cmd *cobra.Command, st *storage.Store, pot dynamo.TwoSpinPotential, rng *rand.Rand) (*lattice.System, error) {
	if fromState == "" {
		return lattice.New(pot, cfg.Lattice, cfg.Anneal.InitialTemperature, rng)
	}
	state, err := st.LoadState(fromState)
	if err != nil {
		return nil, err
	}
	sys, err := lattice.FromState(pot, *state)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", fromState, err)
	}
	if cmd.Flags().Changed("temperature") {
		sys.Temperature = cfg.Anneal.InitialTemperature
	}
	return sys, nil
}

type stepLogger struct{ l *zap.Logger }

func (s stepLogger) OnStep(step lattice.Step, sys *lattice.System) error {
	s.l.Debug("sweep",
		zap.Int("step", step.Index),
		zap.Float64("temperature", step.Temperature),
		zap.Float64("energy", step.Energy),
		zap.Float64("variance", step.Variance),
		zap.Int("accepted", step.Accepted),
		zap.Bool("kept", step.Better))
	return nil
}

func annealRows(res *lattice.Result, sys *lattice.System) []viz.Row {
	rows := []viz.Row{
		{Label: "particles", Value: strconv.Itoa(sys.Len())},
		{Label: "sweeps", Value: strconv.Itoa(len(res.Energies))},
		{Label: "temperature", Value: formatFloat(sys.Temperature)},
		{Label: "initial energy", Value: formatFloat(res.Initial.Energy)},
		{Label: "final energy", Value: formatFloat(res.Final.Energy)},
		{Label: "initial variance", Value: formatFloat(res.Initial.Variance)},
		{Label: "final variance", Value: formatFloat(res.Final.Variance)},
	}
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, viz.Row{Label: name, Value: formatFloat(res.Metrics[name])})
	}
	return rows
}

func printRounds(rounds []lattice.Round) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMPERATURE\tSWEEPS\tKEPT\tENERGY")
	for _, r := range rounds {
		fmt.Fprintf(w, "%.4g\t%d\t%d\t%.6g\n", r.Temperature, r.Steps, r.Improvements, r.Energy)
	}
	w.Flush()
}

func listStates(cmd *cobra.Command, args []string) error {
	names, err := storage.New(dataDir).States()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no states found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOTENTIAL\tORIENTATION\tTIME\tSTEPS\tWELL AT\tDEPTH\tCONTACT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4g\t%.4g\t%.4g\n",
			run.ID,
			run.Potential,
			run.Orientation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.WellDistance,
			run.WellDepth,
			run.ContactDistance,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	prof, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	if len(prof.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Print(viz.Report(meta.ID, append([]viz.Row{
		{Label: "potential", Value: meta.Potential},
		{Label: "orientation", Value: meta.Orientation},
	}, summaryRows(prof)...)))
	fmt.Println(plotProfile(prof, meta.Orientation, clip))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	prof, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	svg := export.ProfileToSVG(prof.Below(clipLevel(prof, clip)), svgWidth, svgHeight, "#00ff88")
	if svg == "" {
		return fmt.Errorf("%s: not enough finite samples to draw", runID)
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("exported svg", zap.String("id", runID), zap.String("file", out))
	fmt.Printf("exported to %s\n", out)
	return nil
}

func summaryRows(prof *analysis.Profile) []viz.Row {
	rows := []viz.Row{{Label: "samples", Value: strconv.Itoa(len(prof.Samples))}}
	if well, ok := prof.Minimum(); ok {
		rows = append(rows,
			viz.Row{Label: "well at", Value: formatFloat(well.Distance)},
			viz.Row{Label: "well depth", Value: formatFloat(well.Energy)},
		)
	}
	if contact, ok := prof.ContactDistance(); ok {
		rows = append(rows, viz.Row{Label: "contact", Value: formatFloat(contact)})
	}
	return rows
}

// clipLevel returns limit when positive, otherwise the well depth mirrored
// above zero, or +Inf when the profile has no attractive well.
func clipLevel(prof *analysis.Profile, limit float64) float64 {
	if limit > 0 {
		return limit
	}
	if well, ok := prof.Minimum(); ok && well.Energy < 0 {
		return -well.Energy
	}
	return math.Inf(1)
}

func plotProfile(prof *analysis.Profile, caption string, limit float64) string {
	clipped := prof.Below(clipLevel(prof, limit))
	if len(clipped.Samples) < 2 {
		return viz.Warning.Render("not enough finite samples to plot")
	}
	return asciigraph.Plot(clipped.Energies(),
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: energy vs separation [%.4g, %.4g]",
			caption, clipped.Samples[0].Distance, clipped.Samples[len(clipped.Samples)-1].Distance)),
	)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 10, 64)
}
