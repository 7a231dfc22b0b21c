package physics

import (
	"fmt"

	"github.com/san-kum/gbsim/internal/dynamo"
)

// LebwohlLasher couples orientations only: U = ε0·P2(spin1·spin2).
// Locations take part in the dimension check and nothing else.
type LebwohlLasher struct {
	Epsilon0 float64
}

func NewLebwohlLasher(epsilon0 float64) *LebwohlLasher {
	return &LebwohlLasher{Epsilon0: epsilon0}
}

// P2 is the second order Legendre polynomial.
func P2(x float64) float64 {
	return (3.0*x*x - 1.0) / 2.0
}

func (l *LebwohlLasher) Energy(spin1, location1, spin2, location2 dynamo.Vector) (float64, error) {
	if err := dynamo.CheckDims(spin1, location1, spin2, location2); err != nil {
		return 0, err
	}
	return l.Epsilon0 * P2(spin1.Dot(spin2)), nil
}

func (l *LebwohlLasher) GetParams() map[string]float64 {
	return map[string]float64{
		"epsilon0": l.Epsilon0,
	}
}

func (l *LebwohlLasher) String() string {
	return fmt.Sprintf("lebwohl_lasher(epsilon0=%g)", l.Epsilon0)
}
