// Package viz renders simulation output for the terminal.
//
//   - [ProgressPrinter]: the "Num events" line rewritten in place during a run
//   - [StateHeader], [StateRow]: the fixed-width state table
//   - [Summary]: end-of-run box
//   - [PlotColumn]: asciigraph line plot of one event log column
//   - [Orbit]: braille drawing of the moving magnet's path around the fixed one
//   - [Interactive]: Bubble Tea stepper advancing the Driver one iteration per key
//
// # Key Bindings
//
//	enter, space, n - advance one iteration
//	f               - advance 100 iterations
//	q, esc          - quit
package viz
