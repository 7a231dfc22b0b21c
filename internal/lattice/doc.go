// Package lattice anneals systems of oriented particles under a pair
// potential.
//
//   - [New]: particles on a jittered regular grid
//   - [System.Energy]: total energy over every pair
//   - [Metropolis]: gaussian spin and location moves
//   - [Annealer]: sweeps through a temperature schedule, keeping the
//     states a [Selector] prefers
//   - [WriteXYZ]: snapshots for AViz
package lattice
