package lattice

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Snapshot is what a Selector compares between two states.
type Snapshot struct {
	Energy   float64
	Variance float64
}

// Selector decides whether the state after a sweep replaces the current one.
type Selector interface {
	Better(current, next Snapshot) bool
}

type SelectorFunc func(current, next Snapshot) bool

func (f SelectorFunc) Better(current, next Snapshot) bool { return f(current, next) }

const (
	ModeCool        = "cool"
	ModeHeat        = "heat"
	ModeHit         = "hit"
	ModeEquilibrate = "equilibrate"
)

var (
	// LowerEnergy keeps states that lower the total energy.
	LowerEnergy = SelectorFunc(func(cur, next Snapshot) bool { return finite(next.Energy) && next.Energy < cur.Energy })
	// HigherEnergy keeps states that raise it.
	HigherEnergy = SelectorFunc(func(cur, next Snapshot) bool { return finite(next.Energy) && next.Energy > cur.Energy })
	// HigherVariance keeps states whose spins are more disordered.
	HigherVariance = SelectorFunc(func(cur, next Snapshot) bool { return next.Variance > cur.Variance })
	// Always keeps every state.
	Always = SelectorFunc(func(Snapshot, Snapshot) bool { return true })
)

var ErrUnknownMode = errors.New("lattice: unknown mode")

var selectors = map[string]Selector{
	ModeCool:        LowerEnergy,
	ModeHeat:        HigherVariance,
	ModeHit:         HigherEnergy,
	ModeEquilibrate: Always,
}

func SelectorFor(mode string) (Selector, error) {
	s, ok := selectors[mode]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownMode, mode, Modes())
	}
	return s, nil
}

func Modes() []string {
	names := make([]string, 0, len(selectors))
	for name := range selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
