package analysis

import (
	"fmt"
	"io"

	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/physics"
)

// Sampler records one signal at every accepted step.
type Sampler struct {
	signal event.Signal
	times  []float64
	values []float64
}

func NewSampler(name string) (*Sampler, error) {
	sig, ok := event.ParseSignal(name)
	if !ok {
		return nil, fmt.Errorf("unknown signal %q", name)
	}
	return &Sampler{signal: sig}, nil
}

func (s *Sampler) OnStep(t float64, d physics.Dipole) {
	v := s.signal.Value(d)
	if s.signal.Angular() {
		v = physics.Rad2Deg(v)
	}
	s.times = append(s.times, t)
	s.values = append(s.values, v)
}

func (s *Sampler) Signal() event.Signal { return s.signal }
func (s *Sampler) Values() []float64    { return s.values }
func (s *Sampler) Len() int             { return len(s.values) }

// MeanStep is the average spacing of the sample times.
func (s *Sampler) MeanStep() float64 {
	if len(s.times) < 2 {
		return 0
	}
	return (s.times[len(s.times)-1] - s.times[0]) / float64(len(s.times)-1)
}

// WriteTo writes a "t, <signal>" header and one line per sample.
func (s *Sampler) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintf(w, "t, %s\n", s.signal)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for i, v := range s.values {
		n, err := fmt.Fprintf(w, "%f,%f\n", s.times[i], v)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
