package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is an orientation or a location in 2D or 3D space.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Dot panics if the lengths differ; callers check with SameDim first.
func (v Vector) Dot(other Vector) float64 {
	return floats.Dot(v, other)
}

// Norm is sqrt(v·v), not the scaled gonum norm, so results match the
// plain dot-product formulation bit for bit.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	floats.SubTo(result, v, other)
	return result
}

func (v Vector) Add(other Vector) Vector {
	result := make(Vector, len(v))
	floats.AddTo(result, v, other)
	return result
}

func (v Vector) Scale(factor float64) Vector {
	result := make(Vector, len(v))
	floats.ScaleTo(result, factor, v)
	return result
}

// Normalize divides each component by the norm. A zero vector yields NaNs.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	result := v.Clone()
	for i := range result {
		result[i] /= n
	}
	return result
}

func (v Vector) Equal(other Vector) bool {
	return len(v) == len(other) && floats.Equal(v, other)
}

// SameDim reports whether all vectors have the length of the first one.
func SameDim(vs ...Vector) bool {
	if len(vs) == 0 {
		return true
	}
	for _, v := range vs[1:] {
		if len(v) != len(vs[0]) {
			return false
		}
	}
	return true
}

// TwoSpinPotential is the pair interaction between two oriented particles.
type TwoSpinPotential interface {
	Energy(spin1, location1, spin2, location2 Vector) (float64, error)
}

type Configurable interface {
	GetParams() map[string]float64
}
