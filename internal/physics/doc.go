// Package physics provides pair potentials for oriented particles.
//
// Each potential implements [dynamo.TwoSpinPotential]:
//
//   - [GayBerne]: anisotropic Lennard-Jones-like potential for ellipsoids
//   - [LebwohlLasher]: orientation-only P2 coupling
//   - [Dipole]: point dipole-dipole interaction
//   - [Sum]: sum of any of the above
//
// Potentials also implement [dynamo.Configurable] so their parameters can be
// reported and fed back into a constructor.
//
// # Degenerate geometry
//
// [GayBerne] never guards its denominators by default. Coincident locations
// give NaN, and separations at the contact distance give Inf or a huge spike.
// Build it with [WithStrict] to get [dynamo.ErrDegenerate] instead:
//
//	gb, _ := physics.NewGayBerne(params, physics.WithStrict())
//	if _, err := gb.Energy(s1, l1, s2, l2); errors.Is(err, dynamo.ErrDegenerate) {
//	    // skip the pair
//	}
package physics
