// Package dynamo provides the core simulation primitives shared by the
// integrator, the event detector and the driver.
//
// The package defines:
//
//   - [Coords]: the fixed six-dimensional phase-space point (r, θ, φ, pr, pθ, pφ)
//   - [System]: equations of motion (dX/dt = f(X))
//   - [DivergenceError] and [BoundaryError]: fatal numerical failures
//
// # Example
//
//	var sys dynamo.System = physics.Model{}
//	dx := sys.Derive(x)
//
// # Thread Safety
//
// Nothing in a run is shared between goroutines. Coords is a value type and
// is safe to copy freely.
package dynamo
