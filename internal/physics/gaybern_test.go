package physics_test

import (
	"math"
	"math/rand"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gbsim/internal/dynamo"
	"github.com/san-kum/gbsim/internal/physics"
)

type pair struct {
	spin1, location1, spin2, location2 dynamo.Vector
}

func randomUnit(rng *rand.Rand) dynamo.Vector {
	v := dynamo.Vector{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	return v.Normalize()
}

// randomPairs keeps every separation beyond the largest contact distance
// of GB(3, 5, 2, 1) so no denominator comes close to vanishing.
func randomPairs(n int, seed int64) []pair {
	rng := rand.New(rand.NewSource(seed))
	pairs := make([]pair, n)
	for i := range pairs {
		loc1 := dynamo.Vector{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		dist := 3.5 + rng.Float64()*3
		pairs[i] = pair{
			spin1:     randomUnit(rng),
			location1: loc1,
			spin2:     randomUnit(rng),
			location2: loc1.Add(randomUnit(rng).Scale(dist)),
		}
	}
	return pairs
}

func relativeDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}

var _ = Describe("GayBerne", func() {
	var gb *physics.GayBerne

	BeforeEach(func() {
		var err error
		gb, err = physics.NewGayBerne(physics.DefaultGayBerneParams())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("derives chi from kappa", func() {
			Expect(gb.Chi()).To(Equal((9.0 - 1.0) / (9.0 + 1.0)))
		})

		It("derives chi_tag from kappa_tag and miu", func() {
			power := math.Pow(5.0, 1.0/2.0)
			Expect(gb.ChiTag()).To(Equal((power - 1.0) / (power + 1.0)))
		})

		DescribeTable("derived anisotropies for valid parameters",
			func(kappa, kappaTag, miu float64) {
				p := physics.DefaultGayBerneParams()
				p.Kappa, p.KappaTag, p.Miu = kappa, kappaTag, miu
				g, err := physics.NewGayBerne(p)
				Expect(err).NotTo(HaveOccurred())

				power := math.Pow(kappaTag, 1.0/miu)
				Expect(g.Chi()).To(Equal((kappa*kappa - 1.0) / (kappa*kappa + 1.0)))
				Expect(g.ChiTag()).To(Equal((power - 1.0) / (power + 1.0)))
				Expect(g.Chi()).To(BeNumerically(">", -1))
				Expect(g.Chi()).To(BeNumerically("<", 1))
				Expect(g.ChiTag()).To(BeNumerically(">", -1))
				Expect(g.ChiTag()).To(BeNumerically("<", 1))
			},
			Entry("rods", 3.0, 5.0, 2.0),
			Entry("lc_3d preset", 3.0, 5.0, 1.0),
			Entry("discs", 0.345, 0.2, 1.0),
			Entry("spheres", 1.0, 1.0, 1.0),
			Entry("negative miu", 4.4, 20.0, -1.0),
		)

		DescribeTable("rejects invalid parameters",
			func(mutate func(*physics.GayBerneParams), name string) {
				p := physics.DefaultGayBerneParams()
				mutate(&p)
				_, err := physics.NewGayBerne(p)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))

				var paramErr *dynamo.ParamError
				Expect(err).To(BeAssignableToTypeOf(paramErr))
				Expect(err.(*dynamo.ParamError).Name).To(Equal(name))
			},
			Entry("zero miu", func(p *physics.GayBerneParams) { p.Miu = 0 }, "miu"),
			Entry("zero kappa_tag", func(p *physics.GayBerneParams) { p.KappaTag = 0 }, "kappa_tag"),
			Entry("negative kappa_tag", func(p *physics.GayBerneParams) { p.KappaTag = -5 }, "kappa_tag"),
			Entry("negative kappa", func(p *physics.GayBerneParams) { p.Kappa = -3 }, "kappa"),
			Entry("NaN epsilon0", func(p *physics.GayBerneParams) { p.Epsilon0 = math.NaN() }, "epsilon0"),
			Entry("infinite sigma_s", func(p *physics.GayBerneParams) { p.SigmaS = math.Inf(1) }, "sigma_s"),
		)

		It("reports the first invalid parameter in a fixed order", func() {
			p := physics.DefaultGayBerneParams()
			p.Ni = math.Inf(-1)
			p.SigmaS = math.Inf(1)
			p.Epsilon0 = math.NaN()
			for i := 0; i < 20; i++ {
				_, err := physics.NewGayBerne(p)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
				Expect(err.(*dynamo.ParamError).Name).To(Equal("epsilon0"))
			}

			p.Epsilon0 = 1
			_, err := physics.NewGayBerne(p)
			Expect(err.(*dynamo.ParamError).Name).To(Equal("sigma_s"))
		})

		It("round-trips through GetParams", func() {
			g, err := physics.NewGayBerneFromParams(gb.GetParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Params()).To(Equal(gb.Params()))
			Expect(g.Chi()).To(Equal(gb.Chi()))
			Expect(g.ChiTag()).To(Equal(gb.ChiTag()))
		})

		It("reports a missing parameter", func() {
			params := gb.GetParams()
			delete(params, "kappa_tag")
			_, err := physics.NewGayBerneFromParams(params)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(err.Error()).To(ContainSubstring("kappa_tag"))
		})
	})

	Describe("reference configurations", func() {
		x := dynamo.Vector{1, 0, 0}
		y := dynamo.Vector{0, 1, 0}
		origin := dynamo.Vector{0, 0, 0}

		DescribeTable("energies",
			func(spin2, location2 dynamo.Vector, sigma, expected float64) {
				t, err := gb.Breakdown(x, origin, spin2, location2)
				Expect(err).NotTo(HaveOccurred())
				Expect(t.Sigma).To(BeNumerically("~", sigma, 1e-12))
				Expect(t.Energy).To(BeNumerically("~", expected, 1e-12))

				u, err := gb.Energy(x, origin, spin2, location2)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(Equal(t.Energy))
			},
			Entry("end to end", x, dynamo.Vector{4, 0, 0}, 3.0, -0.0205078125),
			Entry("side by side", x, dynamo.Vector{0, 2, 0}, 1.0, -0.1025390625),
			Entry("cross", y, dynamo.Vector{0, 0, 2}, 1.0, -0.0615234375),
			Entry("T shape", y, dynamo.Vector{3, 0, 0}, math.Sqrt(5), -0.04903783483524574),
		)

		It("places end-to-end contact at kappa times sigma_s", func() {
			t, err := gb.Breakdown(x, origin, x, dynamo.Vector{2, 0, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.A).To(Equal(-1.0))
			Expect(t.B).To(Equal(-1.0))
			Expect(t.C).To(Equal(1.0))
			Expect(t.Sigma).To(BeNumerically("~", 3.0, 1e-12))
			Expect(math.Abs(t.R)).To(BeNumerically(">", 1e12))
			Expect(math.IsNaN(t.Energy) || math.IsInf(t.Energy, 0) || math.Abs(t.Energy) > 1e100).To(BeTrue())
		})
	})

	Describe("properties", func() {
		It("is symmetric under particle exchange", func() {
			for _, p := range randomPairs(200, 1) {
				u12, err := gb.Energy(p.spin1, p.location1, p.spin2, p.location2)
				Expect(err).NotTo(HaveOccurred())
				u21, err := gb.Energy(p.spin2, p.location2, p.spin1, p.location1)
				Expect(err).NotTo(HaveOccurred())
				Expect(relativeDiff(u12, u21)).To(BeNumerically("<=", 1e-12))
			}
		})

		It("matches the vector-per-term formulation", func() {
			for _, params := range []physics.GayBerneParams{
				physics.DefaultGayBerneParams(),
				{Epsilon0: 2.5, SigmaS: 1.0, Miu: 1.0, Ni: 3.0, Kappa: 3.0, KappaTag: 5.0},
			} {
				g, err := physics.NewGayBerne(params)
				Expect(err).NotTo(HaveOccurred())
				ref := newReferenceGayBerne(params)

				for _, p := range randomPairs(200, 7) {
					u, err := g.Energy(p.spin1, p.location1, p.spin2, p.location2)
					Expect(err).NotTo(HaveOccurred())
					want := ref.energy(p.spin1, p.location1, p.spin2, p.location2)
					Expect(relativeDiff(u, want)).To(BeNumerically("<=", 1e-12))
				}
			}
		})

		It("works in two dimensions", func() {
			u, err := gb.Energy(dynamo.Vector{1, 0}, dynamo.Vector{0, 0}, dynamo.Vector{1, 0}, dynamo.Vector{0, 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNumerically("~", -0.1025390625, 1e-12))
		})

		DescribeTable("repels monotonically inside the well",
			func(spin2, direction dynamo.Vector, contact float64) {
				origin := dynamo.Vector{0, 0, 0}
				spin1 := dynamo.Vector{1, 0, 0}
				wellMinimum := contact + (math.Pow(2, 1.0/6.0) - 1.0)

				previous := math.Inf(-1)
				for n := wellMinimum; n > contact+0.05; n -= 0.01 {
					u, err := gb.Energy(spin1, direction.Scale(n), spin2, origin)
					Expect(err).NotTo(HaveOccurred())
					Expect(u).To(BeNumerically(">", previous), "separation %g", n)
					previous = u
				}
			},
			Entry("end to end", dynamo.Vector{1, 0, 0}, dynamo.Vector{1, 0, 0}, 3.0),
			Entry("side by side", dynamo.Vector{1, 0, 0}, dynamo.Vector{0, 1, 0}, 1.0),
			Entry("cross", dynamo.Vector{0, 1, 0}, dynamo.Vector{0, 0, 1}, 1.0),
		)

		It("vanishes at large separation", func() {
			for _, p := range randomPairs(20, 3) {
				far := p.location1.Add(p.location2.Sub(p.location1).Scale(1e4))
				u, err := gb.Energy(p.spin1, p.location1, p.spin2, far)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.Abs(u)).To(BeNumerically("<", 1e-12))
			}
		})

		It("is safe for concurrent use", func() {
			pairs := randomPairs(64, 11)
			want := make([]float64, len(pairs))
			for i, p := range pairs {
				want[i], _ = gb.Energy(p.spin1, p.location1, p.spin2, p.location2)
			}

			got := make([][]float64, 8)
			var wg sync.WaitGroup
			for w := range got {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					got[w] = make([]float64, len(pairs))
					for i, p := range pairs {
						got[w][i], _ = gb.Energy(p.spin1, p.location1, p.spin2, p.location2)
					}
				}(w)
			}
			wg.Wait()

			for w := range got {
				Expect(got[w]).To(Equal(want))
			}
		})
	})

	Describe("invalid input", func() {
		It("rejects mismatched dimensions", func() {
			_, err := gb.Energy(dynamo.Vector{1, 0, 0}, dynamo.Vector{0, 0}, dynamo.Vector{1, 0, 0}, dynamo.Vector{2, 0, 0})
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("returns NaN for coincident locations", func() {
			loc := dynamo.Vector{1, 1, 1}
			u, err := gb.Energy(dynamo.Vector{1, 0, 0}, loc, dynamo.Vector{0, 1, 0}, loc.Clone())
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsNaN(u)).To(BeTrue())
		})

		It("propagates the singular well term without an error", func() {
			p := physics.DefaultGayBerneParams()
			p.Kappa = math.Inf(1)
			_, err := physics.NewGayBerne(p)
			Expect(err).To(HaveOccurred())

			// chi = 1 makes 1 - chi·c vanish for parallel spins.
			p = physics.DefaultGayBerneParams()
			p.Kappa = 1e10
			g, err := physics.NewGayBerne(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Chi()).To(Equal(1.0))

			x := dynamo.Vector{1, 0, 0}
			u, err := g.Energy(x, dynamo.Vector{0, 0, 0}, x, dynamo.Vector{0, 5, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsNaN(u) || math.IsInf(u, 0)).To(BeTrue())
		})
	})

	Describe("strict mode", func() {
		var strict *physics.GayBerne

		BeforeEach(func() {
			var err error
			strict, err = physics.NewGayBerne(physics.DefaultGayBerneParams(), physics.WithStrict())
			Expect(err).NotTo(HaveOccurred())
			Expect(strict.Strict()).To(BeTrue())
		})

		It("agrees with the default mode on regular input", func() {
			for _, p := range randomPairs(50, 5) {
				u, err := strict.Energy(p.spin1, p.location1, p.spin2, p.location2)
				Expect(err).NotTo(HaveOccurred())
				want, _ := gb.Energy(p.spin1, p.location1, p.spin2, p.location2)
				Expect(u).To(Equal(want))
			}
		})

		It("reports coincident locations", func() {
			loc := dynamo.Vector{0, 0, 0}
			_, err := strict.Energy(dynamo.Vector{1, 0, 0}, loc, dynamo.Vector{1, 0, 0}, loc)
			Expect(err).To(MatchError(dynamo.ErrDegenerate))

			var evalErr *dynamo.EvalError
			Expect(err).To(BeAssignableToTypeOf(evalErr))
			Expect(err.(*dynamo.EvalError).Term).To(Equal("separation"))
		})

		It("reports vanishing denominators", func() {
			p := physics.DefaultGayBerneParams()
			p.Kappa = 1e10
			g, err := physics.NewGayBerne(p, physics.WithStrict())
			Expect(err).NotTo(HaveOccurred())

			x := dynamo.Vector{1, 0, 0}
			_, err = g.Energy(x, dynamo.Vector{0, 0, 0}, x, dynamo.Vector{0, 5, 0})
			Expect(err).To(MatchError(dynamo.ErrDegenerate))
		})

		It("still checks dimensions first", func() {
			_, err := strict.Energy(dynamo.Vector{1, 0}, dynamo.Vector{0, 0, 0}, dynamo.Vector{1, 0, 0}, dynamo.Vector{2, 0, 0})
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})
})
