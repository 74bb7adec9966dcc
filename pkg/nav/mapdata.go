package nav

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Map is the pre-known layout: the vertices of the surrounding walls
// and the destination.
type Map struct {
	Vertices    []int  `yaml:"vertices" json:"vertices"`
	Destination Vertex `yaml:"destination" json:"destination"`
}

// UnmarshalYAML accepts a destination as [x, y].
func (v *Vertex) UnmarshalYAML(node *yaml.Node) error {
	var xy []int
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: vertex expects [x, y], got %d values", node.Line, len(xy))
	}
	v.X, v.Y = xy[0], xy[1]
	return nil
}

// defaultMap is an L-shaped room, 8 by 8 feet with a 3 by 4 feet corner
// cut out.
var defaultMap = Map{
	Vertices: []int{
		0, 0,
		96, 0,
		96, 48,
		60, 48,
		60, 96,
		0, 96,
	},
	Destination: Vertex{X: 30, Y: 80},
}

// DefaultMap returns a copy of the compiled-in map.
func DefaultMap() *Map {
	m := defaultMap
	m.Vertices = append([]int(nil), defaultMap.Vertices...)
	return &m
}

// LoadMap reads a map from a YAML file.
func LoadMap(fn string) (*Map, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var m Map
	if err = yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return &m, nil
}

// Walls generates the wall ring of the map.
func (m *Map) Walls() (*Ring, error) {
	return GenerateWalls(m.Vertices)
}
