// Package analysis provides tools for characterizing pair potentials.
//
//   - [Scan]: energy as a function of separation for fixed orientations
//   - [Profile.Minimum]: depth and position of the attractive well
//   - [Profile.ContactDistance]: separation where the energy changes sign
//   - [Orientations]: the standard Gay-Berne pair configurations
//
// # Example
//
//	o, _ := analysis.LookupOrientation("side_by_side")
//	prof, err := analysis.Scan(gb, analysis.ProfileConfig{
//	    Spin1: o.Spin1, Spin2: o.Spin2, Direction: o.Direction,
//	    RMin: 0.8, RMax: 4, Steps: 400,
//	})
//	well, _ := prof.Minimum()
package analysis
