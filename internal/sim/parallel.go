package sim

import (
	"context"
	"errors"
	"sync"
)

// Ensemble runs independent scans concurrently against one Simulator.
// Observers of the Simulator are then called from several goroutines.
type Ensemble struct {
	base *Simulator
}

func NewEnsemble(s *Simulator) *Ensemble {
	return &Ensemble{base: s}
}

// Run returns results in job order. A failing job cancels the rest and its
// error is returned in preference to the cancellations it caused.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.base.Run(ctx, jobs[idx])
			if errs[idx] != nil {
				cancel()
			}
		}(i)
	}

	wg.Wait()

	var cancelled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			if cancelled == nil {
				cancelled = err
			}
		default:
			return nil, err
		}
	}
	if cancelled != nil {
		return nil, cancelled
	}

	return results, nil
}
