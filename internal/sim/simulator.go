package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

// Driver runs the integrate/detect loop and resolves collisions with the
// r = 1 boundary by bisection.
type Driver struct {
	stepper Integrator
	events  Logger
	cfg     Config
	logger  *zap.Logger

	metrics   []Metric
	observers []Observer
	progress  ProgressFunc

	phase      Phase
	steps      int
	collisions int
}

func New(stepper Integrator, events Logger, cfg Config, logger *zap.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxBisections == 0 {
		cfg.MaxBisections = DefaultMaxBisections
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		stepper: stepper,
		events:  events,
		cfg:     cfg,
		logger:  logger.Named("sim"),
	}, nil
}

func (d *Driver) AddMetric(m Metric)         { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer)     { d.observers = append(d.observers, o) }
func (d *Driver) OnProgress(fn ProgressFunc) { d.progress = fn }

func (d *Driver) Phase() Phase    { return d.phase }
func (d *Driver) Steps() int      { return d.steps }
func (d *Driver) Collisions() int { return d.collisions }

// H is the stepper's current step size.
func (d *Driver) H() float64 { return d.stepper.H() }

// State returns the current time and dipole.
func (d *Driver) State() (float64, physics.Dipole) {
	return d.stepper.T(), d.stepper.State()
}

// KeepGoing reports whether the budget still has room.
func (d *Driver) KeepGoing() bool {
	if d.cfg.NumEvents > 0 {
		return d.events.RecordCount() < d.cfg.NumEvents
	}
	return d.steps < d.cfg.NumSteps
}

// Run advances until the budget is exhausted or a step fails. Records
// written before a failure stay written.
func (d *Driver) Run() (*Result, error) {
	for _, m := range d.metrics {
		m.Reset()
	}

	for d.KeepGoing() {
		if _, err := d.Advance(); err != nil {
			return d.result(), err
		}
	}
	return d.result(), nil
}

// Advance runs one iteration of the loop: a free-flight step, plus the
// whole bisection when that step went through the boundary.
func (d *Driver) Advance() (bool, error) {
	if err := d.stepper.Step(); err != nil {
		return false, d.fatal("step failed", err)
	}
	d.normalize()

	var fired bool
	if d.stepper.State().R() < Boundary {
		if err := d.resolve(); err != nil {
			return false, err
		}
		fired = true
	} else {
		t, cur := d.stepper.T(), d.stepper.State()
		d.notify(t, cur)
		var err error
		fired, err = d.events.Log(cur, t)
		if err != nil {
			return fired, d.fatal("log event", err)
		}
		d.steps++
	}

	if d.progress != nil {
		d.progress(d.events.RecordCount(), d.stepper.State(), fired)
	}
	return fired, nil
}

// resolve walks back to the last state outside the boundary and halves
// its way in until r is within BoundaryTolerance, then logs the collision
// and reflects.
func (d *Driver) resolve() error {
	d.phase = Bisecting
	if err := d.stepper.Undo(); err != nil {
		return d.fatal("undo violating step", err)
	}

	for i := 0; d.stepper.State().R() > BoundaryTolerance; i++ {
		if i == d.cfg.MaxBisections {
			return d.fatal("bisection did not converge", &dynamo.BoundaryError{
				T:          d.stepper.T(),
				H:          d.stepper.H(),
				State:      d.stepper.State().Coords(),
				Iterations: i,
			})
		}
		if err := d.stepper.StepHalf(); err != nil {
			return d.fatal("half step failed", err)
		}
		if d.stepper.State().R() < Boundary {
			if err := d.stepper.Undo(); err != nil {
				return d.fatal("undo half step", err)
			}
			continue
		}
		t, cur := d.stepper.T(), d.stepper.State()
		d.notify(t, cur)
		if _, err := d.events.Log(cur, t); err != nil {
			return d.fatal("log event", err)
		}
		d.steps++
	}

	d.phase = Resolved
	hit := d.stepper.State()
	if err := d.events.LogCollision(hit, d.stepper.T()); err != nil {
		return d.fatal("log collision", err)
	}
	d.collisions++

	d.stepper.SetState(hit.WithPr(-hit.Pr()))
	d.stepper.Reset()
	d.phase = FreeFlight
	return nil
}

func (d *Driver) normalize() {
	cur := d.stepper.State()
	d.stepper.SetState(cur.WithTheta(physics.Rotate(cur.Theta())).WithPhi(physics.Rotate(cur.Phi())))
}

func (d *Driver) notify(t float64, cur physics.Dipole) {
	for _, m := range d.metrics {
		m.Observe(t, cur)
	}
	for _, o := range d.observers {
		o.OnStep(t, cur)
	}
}

// fatal logs the full state before handing the error back.
func (d *Driver) fatal(msg string, err error) error {
	cur := d.stepper.State()
	d.logger.Error(msg,
		zap.Error(err),
		zap.Stringer("phase", d.phase),
		zap.Float64("t", d.stepper.T()),
		zap.Float64("h", d.stepper.H()),
		zap.Float64("r", cur.R()),
		zap.Float64("theta", cur.Theta()),
		zap.Float64("phi", cur.Phi()),
		zap.Float64("pr", cur.Pr()),
		zap.Float64("ptheta", cur.Ptheta()),
		zap.Float64("pphi", cur.Pphi()),
		zap.Float64("E", cur.E()),
		zap.Float64("dE", cur.DE()),
		zap.Int("records", d.events.RecordCount()),
	)
	return fmt.Errorf("%s: %w", msg, err)
}

func (d *Driver) result() *Result {
	res := &Result{
		Records:    d.events.RecordCount(),
		Steps:      d.steps,
		Collisions: d.collisions,
		T:          d.stepper.T(),
		Final:      d.stepper.State(),
		Metrics:    make(map[string]float64, len(d.metrics)),
	}
	for _, m := range d.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
