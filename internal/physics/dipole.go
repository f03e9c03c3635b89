package physics

import "github.com/san-kum/magphyx/internal/dynamo"

// Dipole is the state of the moving magnet. It is a value: every method that
// changes a coordinate returns a new Dipole whose energy terms are already
// recomputed.
type Dipole struct {
	c  dynamo.Coords
	e  float64
	e0 float64
}

// NewDipole builds a dipole whose reference energy is its own energy.
func NewDipole(r, theta, phi, pr, ptheta, pphi float64) Dipole {
	return FromCoords(dynamo.Coords{r, theta, phi, pr, ptheta, pphi})
}

func FromCoords(c dynamo.Coords) Dipole {
	e := Energy(c)
	return Dipole{c: c, e: e, e0: e}
}

// WithCoords keeps the reference energy and replaces the coordinates.
func (d Dipole) WithCoords(c dynamo.Coords) Dipole {
	return Dipole{c: c, e: Energy(c), e0: d.e0}
}

func (d Dipole) with(i int, v float64) Dipole {
	c := d.c
	c[i] = v
	return d.WithCoords(c)
}

func (d Dipole) WithTheta(v float64) Dipole { return d.with(dynamo.Theta, v) }
func (d Dipole) WithPhi(v float64) Dipole   { return d.with(dynamo.Phi, v) }
func (d Dipole) WithPr(v float64) Dipole    { return d.with(dynamo.Pr, v) }

func (d Dipole) Coords() dynamo.Coords { return d.c }
func (d Dipole) R() float64            { return d.c[dynamo.R] }
func (d Dipole) Theta() float64        { return d.c[dynamo.Theta] }
func (d Dipole) Phi() float64          { return d.c[dynamo.Phi] }
func (d Dipole) Pr() float64           { return d.c[dynamo.Pr] }
func (d Dipole) Ptheta() float64       { return d.c[dynamo.Ptheta] }
func (d Dipole) Pphi() float64         { return d.c[dynamo.Pphi] }

// E is the instantaneous energy.
func (d Dipole) E() float64 { return d.e }

// DE is the drift of E from the reference energy.
func (d Dipole) DE() float64 { return d.e - d.e0 }

// Reference is the energy the drift is measured against.
func (d Dipole) Reference() float64 { return d.e0 }
