package physics

import (
	"math"

	"github.com/san-kum/gbsim/internal/dynamo"
)

// Dipole is the point dipole-dipole interaction between two spins:
//
//	U = A²·((s1·s2)d² − 3(s1·r)(s2·r)) / d⁵
type Dipole struct {
	// Coupling is A², the squared dipole moment prefactor.
	Coupling float64
}

// NewDipole uses A = −g·μB/ħ.
func NewDipole() *Dipole {
	a := -GFactor * BohrMagneton / HBar
	return &Dipole{Coupling: a * a}
}

func (d *Dipole) Energy(spin1, location1, spin2, location2 dynamo.Vector) (float64, error) {
	if err := dynamo.CheckDims(spin1, location1, spin2, location2); err != nil {
		return 0, err
	}

	r := location1.Sub(location2)
	dist := r.Norm()
	return d.Coupling *
		(spin1.Dot(spin2)*dist*dist - 3*spin1.Dot(r)*spin2.Dot(r)) /
		math.Pow(dist, 5), nil
}

func (d *Dipole) GetParams() map[string]float64 {
	return map[string]float64{
		"coupling": d.Coupling,
	}
}
