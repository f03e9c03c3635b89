package event

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/physics"
)

func TestFormatRecord(t *testing.T) {
	d := physics.NewDipole(1, 0, 0, 0.5, 0, 0)
	rec := Record{N: 1, Name: CollisionName, T: 2.5, State: d, Beta: physics.Beta(d)}

	want := "1,collision,2.500000,1.000000,0.000000,0.000000,0.500000,0.000000,0.000000,0.000000,-1.875000,0.00e+00"
	assert.Equal(t, want, FormatRecord(rec))
}

func TestFormatRecordDegrees(t *testing.T) {
	d := physics.NewDipole(2, physics.Deg2Rad(45), physics.Deg2Rad(-90), 0, 0, 0)
	fields := strings.Split(FormatRecord(Record{N: 7, Name: "pr = 0", State: d}), ",")
	require.Len(t, fields, 12)
	assert.Equal(t, "pr = 0", fields[1])
	assert.Equal(t, "45.000000", fields[4])
	assert.Equal(t, "-90.000000", fields[5])
}

func TestCSVWriterHeader(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	assert.Equal(t, Header+"\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	start := physics.NewDipole(2, 0.1, 0.3, 0.5, 0.2, 0.1)
	det := NewDetector(w, start, nil)
	_, err = det.Log(start.WithCoords(dynamo.Coords{2, -0.1, 0.3, -0.5, 0.2, 0.1}), 1)
	require.NoError(t, err)
	require.NoError(t, det.LogCollision(start.WithCoords(dynamo.Coords{1, 0.2, 0.3, -0.4, 0.2, 0.1}), 2))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, det.RecordCount()+1)

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	want := []Row{
		{N: 1, Name: "theta = 0", T: 0.5, R: 2, Theta: 0, Phi: physics.Rad2Deg(0.3), Pr: 0, Ptheta: 0.2, Pphi: 0.1},
		{N: 2, Name: "pr = 0", T: 0.5, R: 2, Theta: 0, Phi: physics.Rad2Deg(0.3), Pr: 0, Ptheta: 0.2, Pphi: 0.1},
		{N: 3, Name: "collision", T: 2, R: 1, Theta: physics.Rad2Deg(0.2), Phi: physics.Rad2Deg(0.3), Pr: -0.4, Ptheta: 0.2, Pphi: 0.1},
	}
	ignoreEnergy := cmpopts.IgnoreFields(Row{}, "Beta", "E", "DE")
	if diff := cmp.Diff(want, rows, ignoreEnergy, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.1, rows[2].Beta, 1e-6)
}

func TestReadCSVMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "a, b, c, d, e, f, g, h, i, j, k, l\n"},
		{"short row", Header + "\n1,collision,0.0\n"},
		{"bad float", Header + "\n1,collision,x,1,0,0,0,0,0,0,0,0\n"},
		{"bad n", Header + "\none,collision,0,1,0,0,0,0,0,0,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, dynamo.ErrMalformedInput)
		})
	}
}

func TestRowColumn(t *testing.T) {
	row := Row{N: 4, R: 1.5, DE: 1e-9, Theta: 10}
	tests := []struct {
		name string
		want float64
		ok   bool
	}{
		{"n", 4, true},
		{"r", 1.5, true},
		{"dE", 1e-9, true},
		{"theta", 10, true},
		{"event_type", 0, false},
	}
	for _, tt := range tests {
		got, ok := row.Column(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
