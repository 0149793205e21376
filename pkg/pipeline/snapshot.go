package pipeline

import (
	"encoding/json"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Snapshot is the serializable form of a laid-out digraph: vertex
// positions by name plus routed arc polylines. It is what the layout
// cache stores and what the JSON artifact contains.
type Snapshot struct {
	Positions map[string][2]float64 `json:"positions"`
	Arcs      []ArcRoute            `json:"arcs"`
}

// ArcRoute is one routed arc of a snapshot.
type ArcRoute struct {
	Tail   string       `json:"tail"`
	Head   string       `json:"head"`
	Points [][2]float64 `json:"points,omitempty"`
}

// CaptureSnapshot records the positions and arc routes of a laid-out
// digraph.
func CaptureSnapshot(d *graph.Digraph) *Snapshot {
	s := &Snapshot{Positions: make(map[string][2]float64, d.VertexCount())}
	for _, v := range d.Vertices() {
		s.Positions[v.Name] = [2]float64{v.Pos.X, v.Pos.Y}
	}
	for _, a := range d.Arcs() {
		route := ArcRoute{Tail: a.Tail.Name, Head: a.Head.Name}
		if a.Path != nil && a.Path.IsRigid() {
			for _, c := range a.Path.Coordinates() {
				route.Points = append(route.Points, [2]float64{c.X, c.Y})
			}
		}
		s.Arcs = append(s.Arcs, route)
	}
	return s
}

// Apply writes the snapshot's positions and routes onto d, matching
// vertices by name. Vertices and arcs missing from the snapshot keep
// their state.
func (s *Snapshot) Apply(d *graph.Digraph) {
	byName := make(map[string]*graph.Vertex, d.VertexCount())
	for _, v := range d.Vertices() {
		byName[v.Name] = v
		if p, ok := s.Positions[v.Name]; ok {
			v.Pos = geo.Coordinate{X: p[0], Y: p[1]}
		}
	}
	for _, route := range s.Arcs {
		tail, head := byName[route.Tail], byName[route.Head]
		if tail == nil || head == nil {
			continue
		}
		a := d.Arc(tail, head)
		if a == nil || len(route.Points) < 2 {
			continue
		}
		pts := make([]geo.Coordinate, len(route.Points))
		for i, p := range route.Points {
			pts[i] = geo.Coordinate{X: p[0], Y: p[1]}
		}
		a.Path = geo.PathFromPoints(pts...)
	}
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a snapshot from JSON.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
