package optim

import (
	"context"
	"math"

	"github.com/san-kum/gbsim/internal/analysis"
	"github.com/san-kum/gbsim/internal/dynamo"
	"github.com/san-kum/gbsim/internal/physics"
)

// WellDepthObjective scores Gay-Berne parameter sets by how far the well
// depth of scan lies from target.
func WellDepthObjective(scan analysis.ProfileConfig, target float64, opts ...physics.Option) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		gb, err := physics.NewGayBerneFromParams(params, opts...)
		if err != nil {
			return 0, err
		}
		prof, err := analysis.Scan(gb, scan)
		if err != nil {
			return 0, err
		}
		well, ok := prof.Minimum()
		if !ok {
			return 0, &dynamo.EvalError{Term: "well", Value: math.NaN(), Wrapped: dynamo.ErrDegenerate}
		}
		return math.Abs(well.Energy - target), nil
	}
}
