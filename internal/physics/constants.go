package physics

// Natural constants in cgs units.
const (
	// Boltzmann constant in [erg]/[K].
	Boltzmann = 1.3806488e-16

	// BohrMagneton in [erg]/[G].
	BohrMagneton = 9.274009820e-21

	// GFactor of the spin dipole moment.
	GFactor = 1.0

	// HBar is the reduced Planck constant in [erg]*[sec].
	HBar = 1.0545726663e-27
)
