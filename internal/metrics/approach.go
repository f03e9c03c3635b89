package metrics

import (
	"math"

	"github.com/san-kum/magphyx/internal/physics"
)

// Approach measures how close the magnets come. Value is the fraction of
// observed states within threshold of contact.
type Approach struct {
	name      string
	threshold float64
	near      int
	samples   int
	minR      float64
}

func NewApproach(threshold float64) *Approach {
	return &Approach{
		name:      "near_contact",
		threshold: threshold,
		minR:      math.Inf(1),
	}
}

func (a *Approach) Name() string { return a.name }

func (a *Approach) Observe(t float64, d physics.Dipole) {
	a.samples++
	r := d.R()
	if r-1 < a.threshold {
		a.near++
	}
	a.minR = math.Min(a.minR, r)
}

func (a *Approach) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.near) / float64(a.samples)
}

// MinR is the closest centre distance observed, +Inf before any sample.
func (a *Approach) MinR() float64 { return a.minR }

func (a *Approach) Reset() {
	a.near = 0
	a.samples = 0
	a.minR = math.Inf(1)
}
