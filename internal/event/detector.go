package event

import (
	"fmt"

	"github.com/san-kum/magphyx/internal/physics"
	"go.uber.org/zap"
)

type Detector struct {
	sink   Sink
	prev   physics.Dipole
	n      int
	logger *zap.Logger
}

func NewDetector(sink Sink, initial physics.Dipole, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		sink:   sink,
		prev:   initial,
		logger: logger.Named("event"),
	}
}

// Log writes one record per signal that crossed zero between the retained
// state and next, then retains next. Records carry the crossing state and
// the step end time t. It reports whether anything fired.
func (d *Detector) Log(next physics.Dipole, t float64) (bool, error) {
	prev := d.prev
	d.prev = next

	fired := false
	for _, sig := range Signals {
		if !sig.Crossed(sig.Value(prev), sig.Value(next)) {
			continue
		}
		at := Interpolate(prev, next, sig)
		if err := d.emit(sig.EventName(), at, t); err != nil {
			return fired, err
		}
		fired = true
	}
	return fired, nil
}

// LogCollision writes a collision record unconditionally and retains next.
func (d *Detector) LogCollision(next physics.Dipole, t float64) error {
	d.prev = next
	return d.emit(CollisionName, next, t)
}

// RecordCount is the number of records written so far.
func (d *Detector) RecordCount() int { return d.n }

func (d *Detector) emit(name string, state physics.Dipole, t float64) error {
	rec := Record{
		N:     d.n + 1,
		Name:  name,
		T:     t,
		State: state,
		Beta:  physics.Beta(state),
	}
	if err := d.sink.Write(rec); err != nil {
		return fmt.Errorf("write event %d (%s): %w", rec.N, name, err)
	}
	d.n++
	if ce := d.logger.Check(zap.DebugLevel, "event"); ce != nil {
		ce.Write(zap.Int("n", rec.N), zap.String("type", name), zap.Float64("t", t), zap.Float64("r", state.R()))
	}
	return nil
}
