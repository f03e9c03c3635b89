package event

import (
	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

// Signal names one tracked scalar of the state.
type Signal int

const (
	Theta Signal = iota
	Phi
	Beta
	Pr
	Ptheta
	Pphi
)

// Signals lists the tracked signals in the order they are checked.
var Signals = [...]Signal{Theta, Phi, Beta, Pr, Ptheta, Pphi}

type signalInfo struct {
	name    string
	value   func(physics.Dipole) float64
	coord   int // index into dynamo.Coords, -1 for derived signals
	angular bool
}

var signalTable = [...]signalInfo{
	Theta:  {"theta", physics.Dipole.Theta, dynamo.Theta, true},
	Phi:    {"phi", physics.Dipole.Phi, dynamo.Phi, true},
	Beta:   {"beta", physics.Beta, -1, true},
	Pr:     {"pr", physics.Dipole.Pr, dynamo.Pr, false},
	Ptheta: {"ptheta", physics.Dipole.Ptheta, dynamo.Ptheta, false},
	Pphi:   {"pphi", physics.Dipole.Pphi, dynamo.Pphi, false},
}

func (s Signal) String() string { return signalTable[s].name }

// EventName is the event_type written for a crossing of s.
func (s Signal) EventName() string { return signalTable[s].name + " = 0" }

func (s Signal) Value(d physics.Dipole) float64 { return signalTable[s].value(d) }

// Crossed applies the crossing rule for s to consecutive values a and b.
// Radial momentum only counts positive-to-nonpositive transitions. An angle
// flipping sign at ±pi counts like any other sign change.
func (s Signal) Crossed(a, b float64) bool {
	if s == Pr {
		return IsNegativeZeroCrossing(a, b)
	}
	return IsZeroCrossing(a, b)
}

// ParseSignal looks a signal up by its short name, e.g. "theta".
func ParseSignal(name string) (Signal, bool) {
	for _, s := range Signals {
		if signalTable[s].name == name {
			return s, true
		}
	}
	return 0, false
}

// Angular reports whether the signal is an angle in radians.
func (s Signal) Angular() bool { return signalTable[s].angular }
