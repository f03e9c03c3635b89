package integrators

import (
	"math"

	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

const DefaultMaxRetries = 64

// Stepper owns the working dipole, the simulation time and the adaptive step
// size. It remembers exactly one previous (dipole, t, h) triple so that the
// last Step or StepHalf can be undone.
type Stepper struct {
	sys   dynamo.System
	d     physics.Dipole
	t     float64
	h     float64
	h0    float64
	eps   float64
	fixed bool

	safety     float64
	minScale   float64
	maxScale   float64
	maxRetries int

	// hb is the bisection increment; zero means "seed from h".
	hb float64

	prev     snapshot
	undoable bool
}

type snapshot struct {
	d    physics.Dipole
	t, h float64
}

type Option func(*Stepper)

// WithFixedStep disables error control: every trial step is accepted and h
// never changes.
func WithFixedStep(fixed bool) Option {
	return func(s *Stepper) { s.fixed = fixed }
}

func WithMaxRetries(n int) Option {
	return func(s *Stepper) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func WithSystem(sys dynamo.System) Option {
	return func(s *Stepper) { s.sys = sys }
}

func NewStepper(d physics.Dipole, h0, eps float64, opts ...Option) *Stepper {
	s := &Stepper{
		sys:        physics.Model{},
		d:          d,
		h:          h0,
		h0:         h0,
		eps:        eps,
		safety:     0.9,
		minScale:   0.2,
		maxScale:   5.0,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stepper) State() physics.Dipole { return s.d }
func (s *Stepper) T() float64            { return s.t }
func (s *Stepper) H() float64            { return s.h }

// SetState replaces the working dipole in place (angle normalization,
// reflection). The undo history is left alone.
func (s *Stepper) SetState(d physics.Dipole) { s.d = d }

// Step advances by the current h under error control. A rejected attempt
// shrinks h and retries; running out of retries returns a
// *dynamo.DivergenceError and leaves the state untouched.
func (s *Stepper) Step() error {
	s.save()
	s.hb = 0

	x := s.d.Coords()
	h := s.h
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		next, ratio := rk45(s.sys, x, h, s.eps)
		valid := next.IsValid() && !math.IsNaN(ratio)

		if s.fixed {
			if !valid {
				return s.diverged(h, attempt, dynamo.ErrInvalidState)
			}
			s.accept(next, h)
			return nil
		}

		if !valid {
			h *= s.minScale
			continue
		}
		if ratio > 1 {
			h *= math.Max(s.minScale, s.safety*math.Pow(ratio, -0.25))
			continue
		}

		s.accept(next, h)
		s.h = h * s.growth(ratio)
		return nil
	}

	return s.diverged(h, s.maxRetries, dynamo.ErrStepRejected)
}

// StepHalf halves the bisection increment and takes one unconditional step
// of that size. The h used by Step is not touched, so repeated calls keep
// halving even across Undo.
func (s *Stepper) StepHalf() error {
	if s.hb == 0 {
		s.hb = s.h
	}
	s.hb /= 2
	s.save()

	next, _ := rk45(s.sys, s.d.Coords(), s.hb, s.eps)
	if !next.IsValid() {
		return s.diverged(s.hb, 1, dynamo.ErrInvalidState)
	}
	s.accept(next, s.hb)
	return nil
}

// Undo restores the triple saved by the last Step or StepHalf. Only one
// level is kept: a second Undo returns dynamo.ErrNoUndo.
func (s *Stepper) Undo() error {
	if !s.undoable {
		return dynamo.ErrNoUndo
	}
	s.d, s.t, s.h = s.prev.d, s.prev.t, s.prev.h
	s.undoable = false
	return nil
}

// Reset restores the nominal step size after a collision.
func (s *Stepper) Reset() {
	s.h = s.h0
	s.hb = 0
}

func (s *Stepper) save() {
	s.prev = snapshot{d: s.d, t: s.t, h: s.h}
	s.undoable = true
}

func (s *Stepper) accept(next dynamo.Coords, h float64) {
	s.d = s.d.WithCoords(next)
	s.t += h
}

func (s *Stepper) growth(ratio float64) float64 {
	if ratio == 0 {
		return s.maxScale
	}
	return math.Min(s.maxScale, s.safety*math.Pow(ratio, -0.2))
}

func (s *Stepper) diverged(h float64, attempts int, cause error) error {
	return &dynamo.DivergenceError{
		T:        s.t,
		H:        h,
		State:    s.d.Coords(),
		Attempts: attempts,
		Wrapped:  cause,
	}
}
