package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/gbsim/internal/dynamo"
)

// GayBerneParams are the six constants of the Gay-Berne potential.
type GayBerneParams struct {
	Epsilon0 float64 `yaml:"epsilon0"`
	SigmaS   float64 `yaml:"sigma_s"`
	Miu      float64 `yaml:"miu"`
	Ni       float64 `yaml:"ni"`
	Kappa    float64 `yaml:"kappa"`
	KappaTag float64 `yaml:"kappa_tag"`
}

// DefaultGayBerneParams returns GB(3, 5, 2, 1) in reduced units.
func DefaultGayBerneParams() GayBerneParams {
	return GayBerneParams{
		Epsilon0: 1.0,
		SigmaS:   1.0,
		Miu:      2.0,
		Ni:       1.0,
		Kappa:    3.0,
		KappaTag: 5.0,
	}
}

type Option func(*GayBerne)

// WithStrict makes Energy report degenerate geometry as dynamo.ErrDegenerate
// instead of returning Inf or NaN.
func WithStrict() Option {
	return func(g *GayBerne) { g.strict = true }
}

// GayBerne evaluates the Gay-Berne pair potential. It is immutable once
// built and safe for concurrent use.
type GayBerne struct {
	params GayBerneParams
	chi    float64
	chiTag float64
	strict bool
}

func NewGayBerne(p GayBerneParams, opts ...Option) (*GayBerne, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	kappa2 := p.Kappa * p.Kappa
	kappaTagPower := math.Pow(p.KappaTag, 1.0/p.Miu)

	g := &GayBerne{
		params: p,
		chi:    (kappa2 - 1.0) / (kappa2 + 1.0),
		chiTag: (kappaTagPower - 1.0) / (kappaTagPower + 1.0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewGayBerneFromParams builds an evaluator from the keys reported by
// GetParams.
func NewGayBerneFromParams(m map[string]float64, opts ...Option) (*GayBerne, error) {
	var p GayBerneParams
	fields := p.fields()
	for i, name := range ParamNames {
		v, ok := m[name]
		if !ok {
			return nil, fmt.Errorf("missing param %s: %w", name, dynamo.ErrParameterBounds)
		}
		*fields[i] = v
	}
	return NewGayBerne(p, opts...)
}

func (p GayBerneParams) validate() error {
	values := p.Map()
	for _, name := range ParamNames {
		if v := values[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return &dynamo.ParamError{Name: name, Value: v, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	switch {
	case p.Miu == 0:
		return &dynamo.ParamError{Name: "miu", Value: p.Miu, Wrapped: dynamo.ErrParameterBounds}
	case p.Kappa <= 0:
		return &dynamo.ParamError{Name: "kappa", Value: p.Kappa, Wrapped: dynamo.ErrParameterBounds}
	case p.KappaTag <= 0:
		return &dynamo.ParamError{Name: "kappa_tag", Value: p.KappaTag, Wrapped: dynamo.ErrParameterBounds}
	}
	return nil
}

// ParamNames lists the parameter keys in validation order.
var ParamNames = []string{"epsilon0", "sigma_s", "miu", "ni", "kappa", "kappa_tag"}

// fields follows the order of ParamNames.
func (p *GayBerneParams) fields() []*float64 {
	return []*float64{&p.Epsilon0, &p.SigmaS, &p.Miu, &p.Ni, &p.Kappa, &p.KappaTag}
}

// Map uses the keys accepted by NewGayBerneFromParams.
func (p GayBerneParams) Map() map[string]float64 {
	m := make(map[string]float64, len(ParamNames))
	for i, v := range p.fields() {
		m[ParamNames[i]] = *v
	}
	return m
}

func (g *GayBerne) Params() GayBerneParams { return g.params }
func (g *GayBerne) Chi() float64           { return g.chi }
func (g *GayBerne) ChiTag() float64        { return g.chiTag }
func (g *GayBerne) Strict() bool           { return g.strict }

func (g *GayBerne) GetParams() map[string]float64 {
	return g.params.Map()
}

// Terms are the intermediate values of one evaluation.
type Terms struct {
	A             float64 // spin1 · nr
	B             float64 // spin2 · nr
	C             float64 // spin1 · spin2
	Distance      float64
	Sigma         float64
	R             float64
	EpsilonNi     float64
	EpsilonTagMiu float64
	Epsilon       float64
	Energy        float64
}

// Energy returns the Gay-Berne energy of the pair. Only a dimension mismatch
// is an error unless the evaluator is strict.
func (g *GayBerne) Energy(spin1, location1, spin2, location2 dynamo.Vector) (float64, error) {
	t, err := g.Breakdown(spin1, location1, spin2, location2)
	return t.Energy, err
}

func (g *GayBerne) Breakdown(spin1, location1, spin2, location2 dynamo.Vector) (Terms, error) {
	if err := dynamo.CheckDims(spin1, location1, spin2, location2); err != nil {
		return Terms{}, err
	}

	r := location1.Sub(location2)
	n := r.Norm()
	nr := r.Normalize()

	t := g.evaluate(n, spin1.Dot(nr), spin2.Dot(nr), spin1.Dot(spin2))
	if g.strict {
		if err := g.check(t); err != nil {
			return t, err
		}
	}
	return t, nil
}

func (g *GayBerne) evaluate(n, a, b, c float64) Terms {
	t := Terms{A: a, B: b, C: c, Distance: n}

	t.Sigma = g.sigma(a, b, c)
	t.R = g.params.SigmaS / (n - t.Sigma + g.params.SigmaS)
	t.EpsilonNi = g.epsilonNi(c)
	t.EpsilonTagMiu = g.epsilonTagMiu(a, b, c)
	t.Epsilon = g.params.Epsilon0 *
		math.Pow(t.EpsilonNi, g.params.Ni) *
		math.Pow(t.EpsilonTagMiu, g.params.Miu)
	t.Energy = 4 * t.Epsilon * (math.Pow(t.R, 12) - math.Pow(t.R, 6))
	return t
}

// anisotropy is (a+b)²/(1+χc) + (a−b)²/(1−χc), shared by sigma and
// epsilonTagMiu with chi and chiTag respectively.
func anisotropy(chi, a, b, c float64) float64 {
	first := (a + b) * (a + b) / (1.0 + chi*c)
	second := (a - b) * (a - b) / (1.0 - chi*c)
	return first + second
}

func (g *GayBerne) sigma(a, b, c float64) float64 {
	return g.params.SigmaS / math.Sqrt(1.0-g.chi/2.0*anisotropy(g.chi, a, b, c))
}

func (g *GayBerne) epsilonNi(c float64) float64 {
	return 1.0 / math.Sqrt(1.0-(g.chi*g.chi)*(c*c))
}

func (g *GayBerne) epsilonTagMiu(a, b, c float64) float64 {
	return 1.0 - g.chiTag/2.0*anisotropy(g.chiTag, a, b, c)
}

func (g *GayBerne) check(t Terms) error {
	degenerate := func(term string, v float64) error {
		return &dynamo.EvalError{Term: term, Value: v, Wrapped: dynamo.ErrDegenerate}
	}

	if t.Distance == 0 {
		return degenerate("separation", t.Distance)
	}
	for _, d := range []float64{1 + g.chi*t.C, 1 - g.chi*t.C} {
		if d == 0 {
			return degenerate("shape", d)
		}
	}
	for _, d := range []float64{1 + g.chiTag*t.C, 1 - g.chiTag*t.C} {
		if d == 0 {
			return degenerate("well_orientation", d)
		}
	}
	if arg := 1.0 - g.chi/2.0*anisotropy(g.chi, t.A, t.B, t.C); arg <= 0 {
		return degenerate("shape", arg)
	}
	if arg := 1.0 - (g.chi*g.chi)*(t.C*t.C); arg <= 0 {
		return degenerate("well_alignment", arg)
	}
	if d := t.Distance - t.Sigma + g.params.SigmaS; d == 0 {
		return degenerate("distance", d)
	}
	if math.IsNaN(t.Energy) || math.IsInf(t.Energy, 0) {
		return degenerate("energy", t.Energy)
	}
	return nil
}
