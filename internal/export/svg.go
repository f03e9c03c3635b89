// Package export renders stored event logs as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/physics"
)

type Point struct{ X, Y float64 }

// Trajectory places each row's magnet centre in the plane of motion, with
// the fixed magnet at the origin. Rows are taken in log order; eventType
// filters them when non-empty.
func Trajectory(rows []event.Row, eventType string) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		if eventType != "" && row.Name != eventType {
			continue
		}
		theta := physics.Deg2Rad(row.Theta)
		points = append(points, Point{X: row.R * math.Cos(theta), Y: row.R * math.Sin(theta)})
	}
	return points
}

// TrajectorySVG draws points as a polyline over the r = 1 contact circle.
// The view is square and centred on the origin so the circle stays round.
func TrajectorySVG(w io.Writer, points []Point, size int, stroke string) error {
	if len(points) < 2 {
		return fmt.Errorf("need at least 2 points, got %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	extent := 1.1 * math.Max(1,
		math.Max(math.Max(math.Abs(floats.Min(xs)), math.Abs(floats.Max(xs))),
			math.Max(math.Abs(floats.Min(ys)), math.Abs(floats.Max(ys)))))

	scale := float64(size) / (2 * extent)
	project := func(p Point) (float64, float64) {
		return (p.X + extent) * scale, float64(size) - (p.Y+extent)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	cx, cy := project(Point{})
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444466" stroke-width="1"/>
`, cx, cy, scale)

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		x, y := project(p)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
