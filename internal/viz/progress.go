package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/magphyx/internal/metrics"
	"github.com/san-kum/magphyx/internal/physics"
	"github.com/san-kum/magphyx/internal/sim"
)

// ProgressEvery is how many records pass between progress lines.
const ProgressEvery = 1000

// ProgressPrinter rewrites a single "Num events" line with a carriage
// return. Update matches sim.ProgressFunc.
type ProgressPrinter struct {
	w     io.Writer
	total int
	last  int
}

func NewProgressPrinter(w io.Writer, total int) *ProgressPrinter {
	return &ProgressPrinter{w: w, total: total, last: -1}
}

func (p *ProgressPrinter) Update(n int, d physics.Dipole, fired bool) {
	if !fired || n == p.last {
		return
	}
	if n%ProgressEvery != 0 && (p.total <= 0 || n < p.total) {
		return
	}
	p.last = n
	fmt.Fprintf(p.w, "\rNum events = %-7d     dE = %-12e     ", n, d.DE())
}

var stateColumns = []string{"t", "h", "r", "theta", "phi", "pr", "ptheta", "pphi", "E", "dE"}

// StateHeader is the header of the interactive state table.
func StateHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %9s", stateColumns[0])
	for _, c := range stateColumns[1:] {
		fmt.Fprintf(&b, " %12s", c)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 10+13*(len(stateColumns)-1)))
	return b.String()
}

// StateRow formats one state with angles in degrees. prefix marks rows
// such as a collision.
func StateRow(prefix rune, t, h float64, d physics.Dipole) string {
	return fmt.Sprintf("%c%9.0f %12.6g %12.5g %12.6g %12.6g %12.6g %12.6g %12.6g %12.6g %12.6g",
		prefix, t, h, d.R(),
		physics.Rad2Deg(d.Theta()), physics.Rad2Deg(d.Phi()),
		d.Pr(), d.Ptheta(), d.Pphi(), d.E(), d.DE())
}

// Summary renders the end-of-run panel. output is where the event log
// went, empty for stdout.
func Summary(res *sim.Result, drift *metrics.EnergyDrift, output string, runErr error) string {
	status := StatusOK.Render("complete")
	if runErr != nil {
		status = StatusFailed.Render("failed: " + runErr.Error())
	}

	lines := []string{
		Title.Render("magphyx"),
		metric("status    ", status),
		metric("records   ", fmt.Sprintf("%d", res.Records)),
		metric("steps     ", fmt.Sprintf("%d", res.Steps)),
		metric("collisions", fmt.Sprintf("%d", res.Collisions)),
		metric("t         ", fmt.Sprintf("%.6f", res.T)),
	}
	if drift != nil {
		lines = append(lines,
			metric("max |dE|  ", fmt.Sprintf("%.2e", drift.Value())),
			metric("rms dE    ", fmt.Sprintf("%.2e", drift.RMS())),
		)
	}
	if output != "" {
		lines = append(lines, "", "Results output to "+output)
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
