package analysis

import (
	"fmt"
	"io"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Frequency is the frequency of bin k for n samples spaced dt apart.
func Frequency(k, n int, dt float64) float64 {
	return float64(k) / (float64(n) * dt)
}

// Peak returns the bin with the largest magnitude, skipping the DC term.
func Peak(ps []float64) int {
	best := 0
	for i := 1; i < len(ps); i++ {
		if best == 0 || ps[i] > ps[best] {
			best = i
		}
	}
	return best
}

// WriteSpectrum writes one "k, f, power" line per bin. n is the number of
// samples the spectrum came from.
func WriteSpectrum(w io.Writer, ps []float64, n int, dt float64) error {
	if _, err := fmt.Fprintln(w, "k, f, power"); err != nil {
		return err
	}
	for k, p := range ps {
		if _, err := fmt.Fprintf(w, "%d,%f,%e\n", k, Frequency(k, n, dt), p); err != nil {
			return err
		}
	}
	return nil
}
