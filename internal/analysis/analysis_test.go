package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/integrators"
	"github.com/san-kum/magphyx/internal/physics"
	"github.com/san-kum/magphyx/internal/sim"
)

func TestPowerSpectrumPeak(t *testing.T) {
	const (
		n  = 1024
		dt = 0.01
		k0 = 64
	)
	f := Frequency(k0, n, dt)
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*f*float64(i)*dt)
	}

	ps := PowerSpectrum(data)
	require.Len(t, ps, n/2)
	assert.Equal(t, k0, Peak(ps))
	assert.InDelta(t, n/2, ps[k0], 1e-6)
	assert.InDelta(t, 3*n, ps[0], 1e-6)
}

func TestPowerSpectrumEmpty(t *testing.T) {
	assert.Nil(t, PowerSpectrum(nil))
	assert.Equal(t, 0, Peak(nil))
}

func TestWriteSpectrum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpectrum(&buf, []float64{1, 2}, 4, 0.5))
	assert.Equal(t, "k, f, power\n0,0.000000,1.000000e+00\n1,0.500000,2.000000e+00\n", buf.String())
}

func TestNewSamplerRejectsUnknownSignal(t *testing.T) {
	_, err := NewSampler("r")
	assert.Error(t, err)
}

func TestSamplerFixedStep(t *testing.T) {
	start := physics.NewDipole(5, 0, math.Pi/2, 0, 0, 0)
	det := event.NewDetector(event.Discard{}, start, nil)
	stepper := integrators.NewStepper(start, 1e-2, 1e-10, integrators.WithFixedStep(true))
	drv, err := sim.New(stepper, det, sim.Config{NumSteps: 256}, nil)
	require.NoError(t, err)

	s, err := NewSampler("phi")
	require.NoError(t, err)
	drv.AddObserver(s)

	res, err := drv.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Collisions)
	require.Equal(t, 256, s.Len())
	assert.InDelta(t, 0.01, s.MeanStep(), 1e-12)
	assert.InDelta(t, 90, s.Values()[0], 1e-3)
	assert.Equal(t, event.Phi, s.Signal())

	var buf bytes.Buffer
	_, err = s.WriteTo(&buf)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "t, phi", lines[0])
	assert.Len(t, lines, 257)
}
