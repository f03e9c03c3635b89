package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepRejected indicates the integrator exhausted its error-control retries.
	ErrStepRejected = errors.New("dynamo: step rejected too many times")

	// ErrBoundaryUnresolved indicates collision bisection did not reach the boundary tolerance.
	ErrBoundaryUnresolved = errors.New("dynamo: boundary not resolved within bisection limit")

	// ErrNoUndo indicates Undo was called without a step to undo.
	ErrNoUndo = errors.New("dynamo: no step to undo")

	// ErrMalformedInput indicates an unreadable initial-condition file.
	ErrMalformedInput = errors.New("dynamo: malformed input")
)

// DivergenceError reports the state at which adaptive error control gave up.
type DivergenceError struct {
	T        float64
	H        float64
	State    Coords
	Attempts int
	Wrapped  error
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("t=%g h=%g after %d attempts: %v", e.T, e.H, e.Attempts, e.Wrapped)
}

func (e *DivergenceError) Unwrap() error {
	return e.Wrapped
}

// BoundaryError reports a collision whose bisection never landed within tolerance.
type BoundaryError struct {
	T          float64
	H          float64
	State      Coords
	Iterations int
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("t=%g r=%.17g after %d bisections: %v", e.T, e.State[R], e.Iterations, ErrBoundaryUnresolved)
}

func (e *BoundaryError) Unwrap() error {
	return ErrBoundaryUnresolved
}
