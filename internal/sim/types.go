package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/magphyx/internal/physics"
)

const (
	// Boundary is the contact radius of the two spheres.
	Boundary = 1.0
	// BoundaryTolerance ends collision bisection. It is deliberately not
	// the same test as the r < Boundary entry check.
	BoundaryTolerance = 1.0000000000001

	DefaultMaxBisections = 256
)

// Phase is the collision-resolution state of the Driver.
type Phase int

const (
	FreeFlight Phase = iota
	Bisecting
	Resolved
)

func (p Phase) String() string {
	switch p {
	case FreeFlight:
		return "free-flight"
	case Bisecting:
		return "bisecting"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Observer sees every accepted state, including bisection half-steps.
type Observer interface {
	OnStep(t float64, d physics.Dipole)
}

// Metric is an Observer that reduces the run to a single number.
type Metric interface {
	Name() string
	Observe(t float64, d physics.Dipole)
	Value() float64
	Reset()
}

// ProgressFunc is called after every loop iteration with the current record
// count and whether the iteration wrote anything.
type ProgressFunc func(records int, d physics.Dipole, fired bool)

// Config is the run budget. With NumEvents > 0 the run stops once that
// many records exist; otherwise it stops after NumSteps accepted steps.
type Config struct {
	NumEvents     int
	NumSteps      int
	MaxBisections int
}

var ErrNoBudget = errors.New("sim: neither an event nor a step budget is set")

func (c Config) Validate() error {
	if c.NumEvents <= 0 && c.NumSteps <= 0 {
		return ErrNoBudget
	}
	if c.MaxBisections < 0 {
		return fmt.Errorf("max bisections must not be negative, got %d", c.MaxBisections)
	}
	return nil
}

type Result struct {
	Records    int
	Steps      int
	Collisions int
	T          float64
	Final      physics.Dipole
	Metrics    map[string]float64
}

// Integrator is the stepping surface the Driver needs.
// *integrators.Stepper implements it.
type Integrator interface {
	State() physics.Dipole
	SetState(d physics.Dipole)
	T() float64
	H() float64
	Step() error
	StepHalf() error
	Undo() error
	Reset()
}

// Logger receives accepted states and collisions. *event.Detector
// implements it.
type Logger interface {
	Log(d physics.Dipole, t float64) (bool, error)
	LogCollision(d physics.Dipole, t float64) error
	RecordCount() int
}
