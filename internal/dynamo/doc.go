// Package dynamo provides the core primitives shared by pair potentials.
//
// The package defines the value types and interfaces used across gbsim:
//
//   - [Vector]: orientation ("spin") or location of a particle
//   - [TwoSpinPotential]: energy of a pair of oriented particles
//   - [Configurable]: potentials that report their parameters
//
// Errors are sentinel values ([ErrDimensionMismatch], [ErrParameterBounds],
// [ErrDegenerate]) wrapped in context types such as [ParamError] and
// [EvalError]; match them with errors.Is.
//
// # Example
//
//	gb, _ := physics.NewGayBerne(physics.DefaultGayBerneParams())
//	u, err := gb.Energy(spin1, loc1, spin2, loc2)
//
// # Thread Safety
//
// Potentials in gbsim are immutable after construction and safe for
// concurrent use. Vector methods never modify their receiver.
package dynamo
