package metrics

import (
	"math"

	"github.com/san-kum/magphyx/internal/physics"
)

// Energy is the mean total energy over the observed states.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(t float64, d physics.Dipole) {
	e.total += d.E()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the largest |dE| seen. dE is measured against the
// reference energy carried by each dipole.
type EnergyDrift struct {
	name    string
	maxAbs  float64
	sumSq   float64
	last    float64
	samples int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(t float64, d physics.Dipole) {
	de := d.DE()
	e.last = de
	e.maxAbs = math.Max(e.maxAbs, math.Abs(de))
	e.sumSq += de * de
	e.samples++
}

func (e *EnergyDrift) Value() float64 { return e.maxAbs }

// RMS is the root mean square drift.
func (e *EnergyDrift) RMS() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

// Last is the drift of the most recent state.
func (e *EnergyDrift) Last() float64 { return e.last }

func (e *EnergyDrift) Reset() {
	e.maxAbs = 0
	e.sumSq = 0
	e.last = 0
	e.samples = 0
}
