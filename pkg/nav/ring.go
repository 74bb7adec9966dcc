package nav

import "fmt"

// Vertex is a map point in inches.
type Vertex struct {
	X, Y int
}

// Wall is an axis-aligned segment on the map.
type Wall struct {
	Index  int
	Start  Vertex
	End    Vertex
	Length int
	// Prev and Next are indices of the adjacent walls in the ring.
	Prev int
	Next int
}

// MapError indicates invalid map data.
type MapError struct {
	Wall   int
	Reason string
}

// Error implements error.
func (e *MapError) Error() string {
	if e.Wall < 0 {
		return "invalid map: " + e.Reason
	}
	return fmt.Sprintf("invalid map: wall %d: %s", e.Wall, e.Reason)
}

// Ring is the closed loop of walls around the map. It's immutable once
// generated.
type Ring struct {
	walls []Wall
}

// GenerateWalls builds the Ring from a flat list of vertex coordinates
// x0, y0, x1, y1, ... One wall connects each vertex to the next one, and
// the last vertex back to the first.
func GenerateWalls(vertices []int) (*Ring, error) {
	if len(vertices)%2 != 0 {
		return nil, &MapError{Wall: -1, Reason: fmt.Sprintf("odd number of coordinates %d", len(vertices))}
	}
	n := len(vertices) / 2
	if n < 3 {
		return nil, &MapError{Wall: -1, Reason: fmt.Sprintf("%d vertices, at least 3 required", n)}
	}
	r := &Ring{walls: make([]Wall, n)}
	for i := range r.walls {
		j := (i + 1) % n
		w := &r.walls[i]
		w.Index, w.Prev, w.Next = i, (i+n-1)%n, j
		w.Start = Vertex{X: vertices[i*2], Y: vertices[i*2+1]}
		w.End = Vertex{X: vertices[j*2], Y: vertices[j*2+1]}
		switch {
		case w.Start.Y == w.End.Y:
			w.Length = abs(w.End.X - w.Start.X)
		case w.Start.X == w.End.X:
			w.Length = abs(w.End.Y - w.Start.Y)
		default:
			return nil, &MapError{Wall: i, Reason: fmt.Sprintf("%v-%v not axis-aligned", w.Start, w.End)}
		}
	}
	return r, nil
}

// Len returns the number of walls.
func (r *Ring) Len() int {
	return len(r.walls)
}

// At returns the wall at index i.
func (r *Ring) At(i int) Wall {
	return r.walls[i]
}

// Next returns the wall after w.
func (r *Ring) Next(w Wall) Wall {
	return r.walls[w.Next]
}

// Prev returns the wall before w.
func (r *Ring) Prev(w Wall) Wall {
	return r.walls[w.Prev]
}

// Walk visits every wall once, starting from index start and following
// Next, until fn returns false.
func (r *Ring) Walk(start int, fn func(Wall) bool) {
	w := r.walls[start]
	for range r.walls {
		if !fn(w) {
			return
		}
		w = r.Next(w)
	}
}

// Walls returns a copy of all walls in ring order.
func (r *Ring) Walls() []Wall {
	return append([]Wall(nil), r.walls...)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
