// Package event detects zero-crossings of the tracked state signals and
// writes the ordered event log.
//
// A [Detector] keeps the previous dipole. Each call to [Detector.Log]
// compares it with the new one, signal by signal, and every signal that
// crossed zero produces its own record at the interpolated crossing state.
// Records are numbered from 1 and handed to a [Sink]; [CSVWriter] is the
// sink used for the on-disk log.
package event
