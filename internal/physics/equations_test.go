package physics

import (
	"math"
	"testing"

	"github.com/san-kum/magphyx/internal/dynamo"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{7 * math.Pi, math.Pi},
		{0.25, 0.25},
	}

	for _, tt := range tests {
		got := Rotate(tt.in)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Rotate(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("Rotate(%v) = %v outside (-pi, pi]", tt.in, got)
		}
	}
}

func TestDegreeConversion(t *testing.T) {
	if got := Rad2Deg(math.Pi / 2); math.Abs(got-90) > 1e-12 {
		t.Errorf("Rad2Deg(pi/2) = %v", got)
	}
	if got := Deg2Rad(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("Deg2Rad(180) = %v", got)
	}
}

// Hamilton's equations must agree with finite differences of the energy.
func TestDeriveMatchesEnergyGradient(t *testing.T) {
	states := []dynamo.Coords{
		{1.5, 0, math.Pi / 2, 0, 0, 0},
		{1.2, 0.3, -1.1, 0.4, -0.2, 0.05},
		{3.0, -2.5, 2.0, -0.7, 1.1, -0.3},
	}
	const step = 1e-6

	partial := func(x dynamo.Coords, i int) float64 {
		hi, lo := x, x
		hi[i] += step
		lo[i] -= step
		return (Energy(hi) - Energy(lo)) / (2 * step)
	}

	for _, x := range states {
		dx := Derive(x)
		for q := 0; q < 3; q++ {
			p := q + 3
			if got, want := dx[q], partial(x, p); math.Abs(got-want) > 1e-6 {
				t.Errorf("state %v: d/dt x[%d] = %v, dH/dp = %v", x, q, got, want)
			}
			if got, want := dx[p], -partial(x, q); math.Abs(got-want) > 1e-6 {
				t.Errorf("state %v: d/dt x[%d] = %v, -dH/dq = %v", x, p, got, want)
			}
		}
	}
}

func TestBeta(t *testing.T) {
	d := NewDipole(1.5, 0.25, 0.75, 0, 0, 0)
	if got := Beta(d); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Beta = %v, want 0.5", got)
	}

	wrapped := NewDipole(1.5, -3, 3, 0, 0, 0)
	if got := Beta(wrapped); got <= -math.Pi || got > math.Pi {
		t.Errorf("Beta = %v outside (-pi, pi]", got)
	}
}

func TestModelImplementsInterfaces(t *testing.T) {
	var _ dynamo.System = Model{}
}
