package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrNoCandidate = errors.New("optim: no candidate could be evaluated")

// Objective scores one parameter set; lower is better. An error discards the
// candidate without stopping the search.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// GridSearch evaluates every combination of the given parameter values on
// top of a base parameter set.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of candidates Search evaluates.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

type Result struct {
	Params    map[string]float64
	Score     float64
	Evaluated int
	Failed    int
}

func (g *GridSearch) Search(ctx context.Context, base map[string]float64, objective Objective) (*Result, error) {
	res := &Result{Score: math.Inf(1)}

	current := make(map[string]float64, len(base))
	for k, v := range base {
		current[k] = v
	}

	if err := g.searchRecursive(ctx, 0, current, objective, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return nil, fmt.Errorf("%w (%d failed)", ErrNoCandidate, res.Failed)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	res *Result,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}

		res.Evaluated++
		val, err := objective(ctx, current)
		if err != nil || math.IsNaN(val) {
			res.Failed++
			return nil
		}

		if val < res.Score {
			res.Score = val
			res.Params = make(map[string]float64, len(current))
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, res); err != nil {
			return err
		}
	}
	return nil
}
