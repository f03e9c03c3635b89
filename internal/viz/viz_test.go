package viz

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/integrators"
	"github.com/san-kum/magphyx/internal/metrics"
	"github.com/san-kum/magphyx/internal/physics"
	"github.com/san-kum/magphyx/internal/sim"
)

func demoDipole() physics.Dipole {
	return physics.NewDipole(1.5, 0, math.Pi/2, 0, 0, 0)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf, 1500)
	d := demoDipole()

	p.Update(999, d, true)
	assert.Empty(t, buf.String())

	p.Update(1000, d, false)
	assert.Empty(t, buf.String(), "no line without a new record")

	p.Update(1000, d, true)
	assert.Contains(t, buf.String(), "\rNum events = 1000")

	before := buf.Len()
	p.Update(1000, d, true)
	assert.Equal(t, before, buf.Len(), "same count printed twice")

	p.Update(1500, d, true)
	assert.Contains(t, buf.String(), "Num events = 1500")
}

func TestStateRow(t *testing.T) {
	header := StateHeader()
	assert.Contains(t, header, "ptheta")
	assert.Contains(t, header, "dE")

	row := StateRow('*', 12, 0.01, demoDipole())
	assert.True(t, strings.HasPrefix(row, "*"))
	fields := strings.Fields(strings.TrimPrefix(row, "*"))
	require.Len(t, fields, 10)
	assert.Equal(t, "12", fields[0])
	assert.Equal(t, "1.5", fields[2])
	assert.Equal(t, "90", fields[4], "phi shown in degrees")
}

func TestSummary(t *testing.T) {
	res := &sim.Result{Records: 10, Steps: 40, Collisions: 2, T: 3.5}
	drift := metrics.NewEnergyDrift()

	out := Summary(res, drift, "events.csv", nil)
	assert.Contains(t, out, "Results output to events.csv")
	assert.Contains(t, out, "complete")

	out = Summary(res, nil, "", errors.New("boom"))
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "Results output to")
}

func TestColumnAndPlot(t *testing.T) {
	rows := []event.Row{
		{N: 1, Name: "theta = 0", R: 1.5},
		{N: 2, Name: event.CollisionName, R: 1.0},
		{N: 3, Name: "theta = 0", R: 2.5},
	}

	all, err := Column(rows, "r", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.0, 2.5}, all)

	theta, err := Column(rows, "r", "theta = 0")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, theta)

	_, err = Column(rows, "nope", "")
	assert.Error(t, err)

	plot, err := PlotColumn(rows, "r", PlotOptions{Width: 20, Height: 5})
	require.NoError(t, err)
	assert.Contains(t, plot, "n=3")

	_, err = PlotColumn(rows, "r", PlotOptions{EventType: "pr = 0"})
	assert.Error(t, err)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "────", Sparkline(nil, 4))
	assert.NotEmpty(t, Sparkline([]float64{1, 2, 3, 2, 1}, 5))
}

func TestOrbit(t *testing.T) {
	o := NewOrbit(20, 10, 3)
	blank := strings.Count(o.String(), "⠀")

	o.Add(physics.NewDipole(2, 0, 0, 0, 0, 0))
	o.Add(physics.NewDipole(2, math.Pi/2, 0, 0, 0, 0))
	assert.Less(t, strings.Count(o.String(), "⠀"), blank)
}

func TestInteractiveAdvance(t *testing.T) {
	d := demoDipole()
	det := event.NewDetector(event.Discard{}, d, nil)
	drv, err := sim.New(integrators.NewStepper(d, 1e-2, 1e-10), det, sim.Config{NumSteps: 150}, nil)
	require.NoError(t, err)

	m := NewInteractive(drv)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, drv.Steps())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	assert.False(t, drv.KeepGoing())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "budget exhausted")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
