// Package analysis samples a single signal at every accepted step and
// turns the samples into a power spectrum.
//
// Sampling replaces the event log when a run only cares about one state
// variable:
//
//	s, _ := analysis.NewSampler("phi")
//	drv.AddObserver(s)
//	drv.Run()
//	ps := analysis.PowerSpectrum(s.Values())
//
// Angles are sampled in degrees. The spectrum is only meaningful for
// fixed-step runs, where samples are evenly spaced in time.
package analysis
