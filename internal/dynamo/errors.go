package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for potential evaluation.
var (
	// ErrDimensionMismatch indicates spins and locations of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between spins and locations")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDegenerate indicates a vanishing denominator or a negative square
	// root argument. Only reported by strict evaluators.
	ErrDegenerate = errors.New("dynamo: degenerate configuration")

	// ErrUnknownPotential indicates a potential name with no implementation.
	ErrUnknownPotential = errors.New("dynamo: unknown potential")
)

// DimensionError records the offending vector lengths.
type DimensionError struct {
	Lengths []int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: lengths %v", ErrDimensionMismatch, e.Lengths)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// CheckDims returns a *DimensionError unless all vectors share a length.
func CheckDims(vs ...Vector) error {
	if SameDim(vs...) {
		return nil
	}
	lengths := make([]int, len(vs))
	for i, v := range vs {
		lengths[i] = len(v)
	}
	return &DimensionError{Lengths: lengths}
}

// ParamError wraps an error with the parameter that caused it.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%g", e.Wrapped, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// EvalError wraps an error with the formula term where it surfaced.
type EvalError struct {
	Term    string
	Value   float64
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v: %s (%g)", e.Wrapped, e.Term, e.Value)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
