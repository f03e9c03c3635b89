package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/magphyx/internal/event"
)

// PlotOptions selects what PlotColumn draws. An empty EventType keeps
// every row.
type PlotOptions struct {
	EventType string
	Width     int
	Height    int
}

// Column extracts one numeric column from the rows that match eventType.
func Column(rows []event.Row, column, eventType string) ([]float64, error) {
	var data []float64
	for _, row := range rows {
		if eventType != "" && row.Name != eventType {
			continue
		}
		v, ok := row.Column(column)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", column)
		}
		data = append(data, v)
	}
	return data, nil
}

// PlotColumn draws a column of an event log against record order.
func PlotColumn(rows []event.Row, column string, opts PlotOptions) (string, error) {
	data, err := Column(rows, column, opts.EventType)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no %q rows to plot", opts.EventType)
	}

	caption := column
	if opts.EventType != "" {
		caption = fmt.Sprintf("%s at %s", column, opts.EventType)
	}
	caption = fmt.Sprintf("%s  [%g, %g]  n=%d", caption, floats.Min(data), floats.Max(data), len(data))

	return PlotSeries(data, caption, opts.Width, opts.Height), nil
}

func PlotSeries(data []float64, caption string, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
