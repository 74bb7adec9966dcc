package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAngle(t *testing.T) {
	a := AngleFromDegrees(90)
	require.InDelta(t, 90, a.Degrees(), 1e-9)
	require.InDelta(t, 180, a.AddDegrees(90).Degrees(), 1e-9)
	require.InDelta(t, -90, a.AddDegrees(180).Degrees(), 1e-9)
	require.InDelta(t, 0, a.AddDegrees(-450).AddDegrees(360).Degrees(), 1e-9)
	p := a.Project(2)
	require.InDelta(t, 0, p.X, 1e-9)
	require.InDelta(t, 2, p.Y, 1e-9)
	r := a.Rotate(Pos2D{X: 1, Y: 0})
	require.InDelta(t, 0, r.X, 1e-9)
	require.InDelta(t, 1, r.Y, 1e-9)
	require.InDelta(t, math.Pi, float64(AngleFromDegrees(-180)), 1e-9)
}

func TestSegmentCast(t *testing.T) {
	wall := Segment{From: Pos2D{X: 10, Y: 0}, To: Pos2D{X: 10, Y: 20}}
	testCases := []struct {
		name  string
		p     Pos2D
		a     Angle
		dist  float64
		found bool
	}{
		{"straight", Pos2D{X: 0, Y: 5}, AngleFromDegrees(0), 10, true},
		{"diagonal", Pos2D{X: 0, Y: 5}, AngleFromDegrees(45), 10 * math.Sqrt2, true},
		{"miss above", Pos2D{X: 0, Y: 25}, AngleFromDegrees(0), 0, false},
		{"behind", Pos2D{X: 0, Y: 5}, AngleFromDegrees(180), 0, false},
		{"parallel", Pos2D{X: 0, Y: 5}, AngleFromDegrees(90), 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dist, found := wall.Cast(tc.p, tc.a)
			require.Equal(t, tc.found, found)
			if found {
				require.InDelta(t, tc.dist, dist, 1e-9)
			}
		})
	}
}
