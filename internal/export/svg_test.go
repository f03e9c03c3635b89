package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/magphyx/internal/event"
)

func TestTrajectory(t *testing.T) {
	rows := []event.Row{
		{Name: "theta = 0", R: 2, Theta: 0},
		{Name: event.CollisionName, R: 1, Theta: 90},
		{Name: "theta = 0", R: 1.5, Theta: 0},
	}

	all := Trajectory(rows, "")
	require.Len(t, all, 3)
	assert.InDelta(t, 2, all[0].X, 1e-12)
	assert.InDelta(t, 0, all[1].X, 1e-12)
	assert.InDelta(t, 1, all[1].Y, 1e-12)

	assert.Len(t, Trajectory(rows, event.CollisionName), 1)
}

func TestTrajectorySVG(t *testing.T) {
	var buf bytes.Buffer
	err := TrajectorySVG(&buf, []Point{{2, 0}, {0, 1}, {-1.5, 0}}, 200, "#00ff88")
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `stroke="#00ff88"`)
	assert.Equal(t, 2, strings.Count(out, " L"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))

	assert.Error(t, TrajectorySVG(&buf, []Point{{1, 1}}, 200, "#fff"))
}
