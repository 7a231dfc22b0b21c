package physics

import "github.com/san-kum/gbsim/internal/dynamo"

// Sum adds the energies of its terms; the first error wins.
type Sum []dynamo.TwoSpinPotential

func (s Sum) Energy(spin1, location1, spin2, location2 dynamo.Vector) (float64, error) {
	total := 0.0
	for _, p := range s {
		u, err := p.Energy(spin1, location1, spin2, location2)
		if err != nil {
			return 0, err
		}
		total += u
	}
	return total, nil
}
