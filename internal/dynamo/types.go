package dynamo

import "math"

// Dim is the dimension of the phase space.
const Dim = 6

// Indices into Coords.
const (
	R = iota
	Theta
	Phi
	Pr
	Ptheta
	Pphi
)

// Coords is a phase-space point: r, theta, phi and their conjugate momenta.
type Coords [Dim]float64

func (c Coords) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Lerp returns c + u*(other-c), componentwise.
func (c Coords) Lerp(other Coords, u float64) Coords {
	var result Coords
	for i := range c {
		result[i] = c[i] + u*(other[i]-c[i])
	}
	return result
}

type System interface {
	Derive(x Coords) Coords
}
