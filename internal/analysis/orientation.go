package analysis

import "github.com/san-kum/gbsim/internal/dynamo"

// Orientation fixes both spins and the unit separation of a pair.
type Orientation struct {
	Name      string
	Spin1     dynamo.Vector
	Spin2     dynamo.Vector
	Direction dynamo.Vector
}

// Orientations returns the four canonical configurations in 3D.
func Orientations() []Orientation {
	x := dynamo.Vector{1, 0, 0}
	y := dynamo.Vector{0, 1, 0}
	z := dynamo.Vector{0, 0, 1}
	return []Orientation{
		{Name: "end_to_end", Spin1: x, Spin2: x.Clone(), Direction: x.Clone()},
		{Name: "side_by_side", Spin1: x, Spin2: x.Clone(), Direction: y},
		{Name: "cross", Spin1: x, Spin2: y, Direction: z},
		{Name: "t_shape", Spin1: x, Spin2: y.Clone(), Direction: x.Clone()},
	}
}

func LookupOrientation(name string) (Orientation, bool) {
	for _, o := range Orientations() {
		if o.Name == name {
			return o, true
		}
	}
	return Orientation{}, false
}

func OrientationNames() []string {
	all := Orientations()
	names := make([]string, len(all))
	for i, o := range all {
		names[i] = o.Name
	}
	return names
}

// Config builds a scan of this orientation over [rmin, rmax].
func (o Orientation) Config(rmin, rmax float64, steps int) ProfileConfig {
	return ProfileConfig{
		Spin1:     o.Spin1,
		Spin2:     o.Spin2,
		Direction: o.Direction,
		RMin:      rmin,
		RMax:      rmax,
		Steps:     steps,
	}
}
