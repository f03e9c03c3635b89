package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/magphyx/internal/sim"
)

const (
	interactiveRows = 12
	fastForward     = 100
)

// Interactive is a Bubble Tea model that advances a Driver on key press
// and shows the most recent states.
type Interactive struct {
	drv     *sim.Driver
	orbit   *Orbit
	rows    []string
	history []float64
	err     error
	done    bool
}

func NewInteractive(drv *sim.Driver) *Interactive {
	m := &Interactive{
		drv:   drv,
		orbit: NewOrbit(40, 16, 3),
	}
	t, d := drv.State()
	m.orbit.Add(d)
	m.push(StateRow(' ', t, drv.H(), d), d.DE())
	return m
}

func (m *Interactive) Init() tea.Cmd { return nil }

func (m *Interactive) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "enter", " ", "n":
		m.advance(1)
	case "f":
		m.advance(fastForward)
	}
	return m, nil
}

func (m *Interactive) advance(n int) {
	for i := 0; i < n && !m.done && m.err == nil; i++ {
		if !m.drv.KeepGoing() {
			m.done = true
			return
		}
		before := m.drv.Collisions()
		if _, err := m.drv.Advance(); err != nil {
			m.err = err
			return
		}
		prefix := ' '
		if m.drv.Collisions() > before {
			prefix = '*'
		}
		t, d := m.drv.State()
		m.orbit.Add(d)
		m.push(StateRow(prefix, t, m.drv.H(), d), d.DE())
	}
}

func (m *Interactive) push(row string, de float64) {
	m.rows = append(m.rows, row)
	if len(m.rows) > interactiveRows {
		m.rows = m.rows[len(m.rows)-interactiveRows:]
	}
	m.history = append(m.history, de)
}

// Err is the error that stopped the Driver, if any.
func (m *Interactive) Err() error { return m.err }

func (m *Interactive) View() string {
	var b strings.Builder
	b.WriteString(Title.Render("magphyx interactive") + "\n\n")
	b.WriteString(m.orbit.String() + "\n")
	b.WriteString(StateHeader() + "\n")
	for _, row := range m.rows {
		b.WriteString(row + "\n")
	}
	b.WriteString("\n")

	b.WriteString(metric("steps", fmt.Sprintf("%d", m.drv.Steps())) + "   ")
	b.WriteString(metric("collisions", fmt.Sprintf("%d", m.drv.Collisions())) + "   ")
	b.WriteString(metric("phase", m.drv.Phase().String()) + "\n")
	b.WriteString(metric("dE", Sparkline(m.history, 60)) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StatusFailed.Render("stopped: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString(StatusOK.Render("budget exhausted") + "\n")
	}
	b.WriteString(KeyHint.Render("enter step   f +100   q quit") + "\n")
	return b.String()
}

// RunInteractive blocks until the user quits.
func RunInteractive(drv *sim.Driver) error {
	m := NewInteractive(drv)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return m.Err()
}
