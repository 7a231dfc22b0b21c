package sim

import "github.com/san-kum/gbsim/internal/analysis"

// Job is one named scan of an ensemble.
type Job struct {
	Name   string
	Config analysis.ProfileConfig
}

// Observer is notified of each sample as it is evaluated.
type Observer interface {
	OnSample(job string, s analysis.Sample)
}

type Result struct {
	Name    string
	Profile *analysis.Profile
	// Nonfinite counts samples whose energy was NaN or ±Inf.
	Nonfinite int
}

// JobsFor builds one job per orientation over the same range.
func JobsFor(orientations []analysis.Orientation, rmin, rmax float64, steps int) []Job {
	jobs := make([]Job, len(orientations))
	for i, o := range orientations {
		jobs[i] = Job{Name: o.Name, Config: o.Config(rmin, rmax, steps)}
	}
	return jobs
}
