package physics_test

import (
	"math"

	"github.com/san-kum/gbsim/internal/dynamo"
	"github.com/san-kum/gbsim/internal/physics"
)

// referenceGayBerne re-derives every vector operation inside each sub-term.
// It is the slow formulation that GayBerne.Energy must agree with.
type referenceGayBerne struct {
	p           physics.GayBerneParams
	chi, chiTag float64
}

func newReferenceGayBerne(p physics.GayBerneParams) *referenceGayBerne {
	kappa2 := p.Kappa * p.Kappa
	power := math.Pow(p.KappaTag, 1.0/p.Miu)
	return &referenceGayBerne{
		p:      p,
		chi:    (kappa2 - 1.0) / (kappa2 + 1.0),
		chiTag: (power - 1.0) / (power + 1.0),
	}
}

func (g *referenceGayBerne) energy(spin1, location1, spin2, location2 dynamo.Vector) float64 {
	r := location1.Sub(location2)
	nr := r.Normalize()
	R := g.p.SigmaS / (r.Norm() - g.sigma(spin1, spin2, nr) + g.p.SigmaS)
	epsilon := g.p.Epsilon0 *
		math.Pow(g.epsilonNi(spin1, spin2), g.p.Ni) *
		math.Pow(g.epsilonTagMiu(spin1, spin2, nr), g.p.Miu)
	return 4 * epsilon * (math.Pow(R, 12) - math.Pow(R, 6))
}

func (g *referenceGayBerne) sigma(spin1, spin2, nr dynamo.Vector) float64 {
	first := math.Pow(spin1.Dot(nr)+spin2.Dot(nr), 2) / (1.0 + g.chi*spin1.Dot(spin2))
	second := math.Pow(spin1.Dot(nr)-spin2.Dot(nr), 2) / (1.0 - g.chi*spin1.Dot(spin2))
	return g.p.SigmaS / math.Sqrt(1.0-g.chi/2.0*(first+second))
}

func (g *referenceGayBerne) epsilonNi(spin1, spin2 dynamo.Vector) float64 {
	return 1.0 / math.Sqrt(1.0-(g.chi*g.chi)*math.Pow(spin1.Dot(spin2), 2))
}

func (g *referenceGayBerne) epsilonTagMiu(spin1, spin2, nr dynamo.Vector) float64 {
	first := math.Pow(spin1.Dot(nr)+spin2.Dot(nr), 2) / (1.0 + g.chiTag*spin1.Dot(spin2))
	second := math.Pow(spin1.Dot(nr)-spin2.Dot(nr), 2) / (1.0 - g.chiTag*spin1.Dot(spin2))
	return 1.0 - g.chiTag/2.0*(first+second)
}
