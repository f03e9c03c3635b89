package event

import (
	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

// Epsilon is the magnitude below which a signal counts as zero.
const Epsilon = 1e-12

func Sign(x float64) int {
	switch {
	case x < -Epsilon:
		return -1
	case x > Epsilon:
		return 1
	default:
		return 0
	}
}

// IsZeroCrossing reports whether a nonzero signal changed sign or landed on
// zero. Leaving zero is not a crossing.
func IsZeroCrossing(a, b float64) bool {
	if Sign(a) == 0 {
		return false
	}
	return Sign(a) == -Sign(b) || Sign(b) == 0
}

// IsNegativeZeroCrossing reports a transition from positive to zero or
// negative.
func IsNegativeZeroCrossing(a, b float64) bool {
	return Sign(a) > 0 && Sign(b) <= 0
}

// Interpolate returns the state between a and b at which sig is zero,
// interpolating every coordinate linearly in sig.
func Interpolate(a, b physics.Dipole, sig Signal) physics.Dipole {
	va, vb := sig.Value(a), sig.Value(b)
	u := va / (va - vb)

	ca, cb := a.Coords(), b.Coords()
	for _, i := range []int{dynamo.Theta, dynamo.Phi} {
		cb[i] = ca[i] + physics.Rotate(cb[i]-ca[i])
	}

	c := ca.Lerp(cb, u)
	c[dynamo.Theta] = physics.Rotate(c[dynamo.Theta])
	c[dynamo.Phi] = physics.Rotate(c[dynamo.Phi])
	if idx := signalTable[sig].coord; idx >= 0 {
		c[idx] = 0
	}
	return a.WithCoords(c)
}
