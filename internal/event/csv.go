package event

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

// Header is the first line of every event log.
const Header = "n, event_type, t, r, theta, phi, pr, ptheta, pphi, beta, E, dE"

// Columns are the header fields with surrounding spaces removed.
var Columns = []string{"n", "event_type", "t", "r", "theta", "phi", "pr", "ptheta", "pphi", "beta", "E", "dE"}

// CSVWriter renders records as event log lines. The format is fixed, so
// rows are produced with fmt rather than encoding/csv, which would quote
// the space-prefixed header fields.
type CSVWriter struct {
	w *bufio.Writer
}

// NewCSVWriter writes the header immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: bufio.NewWriter(w)}
	if _, err := cw.w.WriteString(Header + "\n"); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return cw, nil
}

func (c *CSVWriter) Write(rec Record) error {
	_, err := c.w.WriteString(FormatRecord(rec) + "\n")
	return err
}

func (c *CSVWriter) Flush() error { return c.w.Flush() }

// FormatRecord renders one row. Angles theta and phi are written in
// degrees, beta in radians.
func FormatRecord(rec Record) string {
	d := rec.State
	return fmt.Sprintf("%d,%s,%f,%f,%f,%f,%f,%f,%f,%f,%f,%.2e",
		rec.N, rec.Name, rec.T, d.R(),
		physics.Rad2Deg(d.Theta()), physics.Rad2Deg(d.Phi()),
		d.Pr(), d.Ptheta(), d.Pphi(), rec.Beta, d.E(), d.DE())
}

// Row is a parsed event log line, in the units it was written in.
type Row struct {
	N      int     `json:"n"`
	Name   string  `json:"event_type"`
	T      float64 `json:"t"`
	R      float64 `json:"r"`
	Theta  float64 `json:"theta"`
	Phi    float64 `json:"phi"`
	Pr     float64 `json:"pr"`
	Ptheta float64 `json:"ptheta"`
	Pphi   float64 `json:"pphi"`
	Beta   float64 `json:"beta"`
	E      float64 `json:"E"`
	DE     float64 `json:"dE"`
}

// Column returns the numeric column with the given header name.
func (r Row) Column(name string) (float64, bool) {
	switch name {
	case "n":
		return float64(r.N), true
	case "t":
		return r.T, true
	case "r":
		return r.R, true
	case "theta":
		return r.Theta, true
	case "phi":
		return r.Phi, true
	case "pr":
		return r.Pr, true
	case "ptheta":
		return r.Ptheta, true
	case "pphi":
		return r.Pphi, true
	case "beta":
		return r.Beta, true
	case "E":
		return r.E, true
	case "dE":
		return r.DE, true
	}
	return 0, false
}

// ReadCSV parses an event log written by CSVWriter.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty event log", dynamo.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", dynamo.ErrMalformedInput, err)
	}
	for i, col := range Columns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", dynamo.ErrMalformedInput, i+1, header[i], col)
		}
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dynamo.ErrMalformedInput, err)
		}
		row, err := parseRow(fields)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %v", dynamo.ErrMalformedInput, line, err)
		}
		rows = append(rows, row)
	}
}

func parseRow(f []string) (Row, error) {
	n, err := strconv.Atoi(f[0])
	if err != nil {
		return Row{}, fmt.Errorf("n: %w", err)
	}
	row := Row{N: n, Name: f[1]}
	dst := []*float64{&row.T, &row.R, &row.Theta, &row.Phi, &row.Pr, &row.Ptheta, &row.Pphi, &row.Beta, &row.E, &row.DE}
	for i, p := range dst {
		v, err := strconv.ParseFloat(f[i+2], 64)
		if err != nil {
			return Row{}, fmt.Errorf("%s: %w", Columns[i+2], err)
		}
		*p = v
	}
	return row, nil
}
