package viz

import (
	"math"
	"strings"

	"github.com/san-kum/magphyx/internal/physics"
)

const brailleBase = 0x2800

// dot bits of a braille cell, indexed [row][col] within its 2x4 grid.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Orbit draws the moving magnet's centre in the plane of motion, with the
// fixed magnet at the origin. Each character cell holds 2x4 dots.
type Orbit struct {
	cols, rows int
	extent     float64
	cells      [][]rune
	last       [2]int
	hasLast    bool
}

// NewOrbit covers [-extent, extent] on both axes.
func NewOrbit(cols, rows int, extent float64) *Orbit {
	o := &Orbit{cols: cols, rows: rows, extent: extent}
	o.Reset()
	return o
}

// Reset clears the path and redraws the contact circle r = 1.
func (o *Orbit) Reset() {
	o.cells = make([][]rune, o.rows)
	for i := range o.cells {
		o.cells[i] = []rune(strings.Repeat(string(rune(brailleBase)), o.cols))
	}
	o.hasLast = false
	for i := 0; i < 96; i++ {
		a := 2 * math.Pi * float64(i) / 96
		x, y := o.project(math.Cos(a), math.Sin(a))
		o.dot(x, y)
	}
}

// Add extends the path to d's position, joining it to the previous one.
func (o *Orbit) Add(d physics.Dipole) {
	x, y := o.project(d.R()*math.Cos(d.Theta()), d.R()*math.Sin(d.Theta()))
	if o.hasLast {
		o.line(o.last[0], o.last[1], x, y)
	} else {
		o.dot(x, y)
	}
	o.last, o.hasLast = [2]int{x, y}, true
}

func (o *Orbit) String() string {
	var b strings.Builder
	for _, row := range o.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// project maps plane coordinates to dot coordinates, y growing downward.
func (o *Orbit) project(x, y float64) (int, int) {
	w, h := float64(o.cols*2), float64(o.rows*4)
	px := (x/o.extent + 1) / 2 * (w - 1)
	py := (1 - (y/o.extent+1)/2) * (h - 1)
	return int(math.Round(px)), int(math.Round(py))
}

func (o *Orbit) dot(x, y int) {
	if x < 0 || y < 0 || x >= o.cols*2 || y >= o.rows*4 {
		return
	}
	o.cells[y/4][x/2] |= brailleDots[y%4][x%2]
}

// line joins two dots with Bresenham's algorithm.
func (o *Orbit) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		o.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
