package physics

import (
	"math"

	"github.com/san-kum/magphyx/internal/dynamo"
)

// Inertia is the moment of inertia of the moving sphere (unit mass,
// diameter 1): 2/5 * m * (1/2)^2.
const Inertia = 0.1

// Model is the dimensionless two-dipole system: a free spherical magnet of
// diameter 1 in the field of an identical magnet fixed at the origin and
// pointing along theta = 0. Contact happens at r = 1.
type Model struct{}

func (Model) Derive(x dynamo.Coords) dynamo.Coords { return Derive(x) }

// Derive returns Hamilton's equations for the two-dipole Hamiltonian.
func Derive(x dynamo.Coords) dynamo.Coords {
	r, theta, phi := x[dynamo.R], x[dynamo.Theta], x[dynamo.Phi]
	pr, ptheta, pphi := x[dynamo.Pr], x[dynamo.Ptheta], x[dynamo.Pphi]

	r2 := r * r
	r3 := r2 * r
	r4 := r3 * r

	sinPhi, cosPhi := math.Sincos(phi)
	sinRel, cosRel := math.Sincos(phi - 2*theta)

	return dynamo.Coords{
		pr,
		ptheta / r2,
		pphi / Inertia,
		ptheta*ptheta/r3 - 3*(cosPhi+3*cosRel)/(2*r4),
		3 * sinRel / r3,
		-(sinPhi + 3*sinRel) / (2 * r3),
	}
}

// Potential is the dipole-dipole interaction energy.
func Potential(x dynamo.Coords) float64 {
	r, theta, phi := x[dynamo.R], x[dynamo.Theta], x[dynamo.Phi]
	return -(math.Cos(phi) + 3*math.Cos(phi-2*theta)) / (2 * r * r * r)
}

// Energy is the total (kinetic + interaction) energy.
func Energy(x dynamo.Coords) float64 {
	r := x[dynamo.R]
	pr, ptheta, pphi := x[dynamo.Pr], x[dynamo.Ptheta], x[dynamo.Pphi]
	ke := 0.5*pr*pr + ptheta*ptheta/(2*r*r) + pphi*pphi/(2*Inertia)
	return ke + Potential(x)
}

// Beta is the orientation of the moving dipole relative to the line of
// centres, in (-pi, pi].
func Beta(d Dipole) float64 {
	return Rotate(d.Phi() - d.Theta())
}

// Rotate maps any angle into (-pi, pi].
func Rotate(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func Rad2Deg(a float64) float64 { return a * 180 / math.Pi }
func Deg2Rad(a float64) float64 { return a * math.Pi / 180 }
