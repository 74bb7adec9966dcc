package nav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateWalls(t *testing.T) {
	ring, err := GenerateWalls(defaultMap.Vertices)
	require.NoError(t, err)
	require.Equal(t, 6, ring.Len())

	lengths := make([]int, 0, ring.Len())
	for _, w := range ring.Walls() {
		lengths = append(lengths, w.Length)
	}
	require.Equal(t, []int{96, 48, 36, 48, 60, 96}, lengths)

	first := ring.At(0)
	require.Equal(t, Vertex{X: 0, Y: 0}, first.Start)
	require.Equal(t, Vertex{X: 96, Y: 0}, first.End)
	require.Equal(t, 5, first.Prev)
	require.Equal(t, Vertex{X: 0, Y: 0}, ring.Prev(first).End)

	for start := 0; start < ring.Len(); start++ {
		w := ring.At(start)
		for i := 0; i < ring.Len(); i++ {
			require.Equal(t, w.End, ring.Next(w).Start)
			w = ring.Next(w)
		}
		require.Equal(t, start, w.Index)
		for i := 0; i < ring.Len(); i++ {
			w = ring.Prev(w)
		}
		require.Equal(t, start, w.Index)
	}

	var visited []int
	ring.Walk(4, func(w Wall) bool {
		visited = append(visited, w.Index)
		return true
	})
	require.Equal(t, []int{4, 5, 0, 1, 2, 3}, visited)
}

func TestGenerateWallsErrors(t *testing.T) {
	testCases := []struct {
		name     string
		vertices []int
		wall     int
	}{
		{"diagonal", []int{0, 0, 10, 10, 0, 10}, 0},
		{"diagonal closing wall", []int{0, 0, 10, 0, 10, 10}, 2},
		{"too few vertices", []int{0, 0, 10, 0}, -1},
		{"odd coordinates", []int{0, 0, 10, 0, 10}, -1},
		{"empty", nil, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ring, err := GenerateWalls(tc.vertices)
			require.Nil(t, ring)
			var me *MapError
			require.True(t, errors.As(err, &me))
			require.Equal(t, tc.wall, me.Wall)
		})
	}
}

func TestGuessWall(t *testing.T) {
	ring, err := GenerateWalls([]int{0, 0, 10, 0, 10, 20, 40, 20, 40, 0, 50, 0, 50, 30, 0, 30})
	require.NoError(t, err)
	// lengths: 10, 20, 30, 20, 10, 30, 50, 30
	_, ok := ring.GuessWall(20)
	require.False(t, ok)

	unique, err := GenerateWalls([]int{0, 0, 10, 0, 10, 20, 40, 20, 40, 50, 0, 50})
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30, 30, 40, 50}, wallLengths(unique))

	testCases := []struct {
		traveled int
		wall     int
		ok       bool
	}{
		{20, 1, true},
		{19, 1, true},
		{21, 1, true},
		{30, 0, false},
		{45, 0, false},
		{0, 0, false},
	}
	for _, tc := range testCases {
		w, ok := unique.GuessWall(tc.traveled)
		require.Equal(t, tc.ok, ok, "traveled %d", tc.traveled)
		if ok {
			require.Equal(t, tc.wall, w.Index)
		}
	}
}

func TestGuessWallTolerance(t *testing.T) {
	ring, err := GenerateWalls([]int{0, 0, 10, 0, 10, 20, 40, 20, 40, 70, 0, 70})
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30, 50, 40, 70}, wallLengths(ring))
	w, ok := ring.GuessWall(20)
	require.True(t, ok)
	require.Equal(t, 20, w.Length)

	near, err := GenerateWalls([]int{0, 0, 20, 0, 20, 21, 70, 21, 70, 70, 0, 70})
	require.NoError(t, err)
	require.Equal(t, []int{20, 21, 50, 49, 70, 70}, wallLengths(near))
	_, ok = near.GuessWall(20)
	require.False(t, ok)
}

func wallLengths(r *Ring) []int {
	lengths := make([]int, r.Len())
	for n, w := range r.Walls() {
		lengths[n] = w.Length
	}
	return lengths
}

func TestLoadMap(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
vertices: [0, 0, 48, 0, 48, 48, 0, 48]
destination: [24, 40]
`), 0644))
	m, err := LoadMap(fn)
	require.NoError(t, err)
	require.Equal(t, Vertex{X: 24, Y: 40}, m.Destination)
	ring, err := m.Walls()
	require.NoError(t, err)
	require.Equal(t, []int{48, 48, 48, 48}, wallLengths(ring))

	require.NoError(t, os.WriteFile(fn, []byte("destination: [1]\n"), 0644))
	_, err = LoadMap(fn)
	require.Error(t, err)

	_, err = LoadMap(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	def := DefaultMap()
	def.Vertices[0] = 99
	require.Equal(t, 0, DefaultMap().Vertices[0])
}
