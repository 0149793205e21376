// Package config loads graph documents and layout profiles from TOML or
// JSON files and turns them into the collection trees the layout engine
// consumes.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Document is the on-disk representation of a layout request: a named
// root sublayout with nodes, edges, options, and nested sublayouts or
// subgraph-node regions.
type Document struct {
	Name    string         `toml:"name" json:"name"`
	Options map[string]any `toml:"options" json:"options"`

	Nodes      []NodeSpec     `toml:"node" json:"nodes"`
	Edges      []EdgeSpec     `toml:"edge" json:"edges"`
	Sublayouts []Document     `toml:"sublayout" json:"sublayouts"`
	Subgraphs  []SubgraphSpec `toml:"subgraph" json:"subgraphs"`
}

// NodeSpec declares one vertex. Nodes with the same name in different
// sublayouts of one document refer to the same vertex.
type NodeSpec struct {
	Name    string         `toml:"name" json:"name"`
	Options map[string]any `toml:"options" json:"options"`
}

// EdgeSpec declares one syntactic edge. Endpoints that were not declared
// as nodes are created implicitly.
type EdgeSpec struct {
	From      string         `toml:"from" json:"from"`
	To        string         `toml:"to" json:"to"`
	Direction string         `toml:"direction" json:"direction"`
	Options   map[string]any `toml:"options" json:"options"`
}

// SubgraphSpec declares a subgraph-node region over already declared
// nodes of the enclosing sublayout.
type SubgraphSpec struct {
	Name  string   `toml:"name" json:"name"`
	Nodes []string `toml:"nodes" json:"nodes"`
}

// Load reads a graph document from path, choosing the format by file
// extension (.toml, or .json).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeNotFound, err, "read graph document %q", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return nil, gderrors.New(gderrors.ErrCodeInvalidFormat, "unsupported graph document extension %q", filepath.Ext(path))
	}
}

// ParseTOML decodes a TOML graph document.
func ParseTOML(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidDocument, err, "decode TOML graph document")
	}
	return &doc, nil
}

// ParseJSON decodes a JSON graph document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidDocument, err, "decode JSON graph document")
	}
	return &doc, nil
}

var edgeDirections = map[string]graph.Direction{
	"":                          graph.DirectionTo,
	string(graph.DirectionTo):   graph.DirectionTo,
	string(graph.DirectionNone): graph.DirectionNone,
	string(graph.DirectionBack): graph.DirectionBack,
	string(graph.DirectionBoth): graph.DirectionBoth,
	string(graph.DirectionBar):  graph.DirectionBar,
}

// Build turns the document into a sublayout collection tree ready for
// the layout engine. Vertices are shared across sublayouts by name, so a
// node referenced in a parent and in a child is the same vertex object.
func (d *Document) Build() (*graph.Collection, error) {
	b := &builder{vertices: make(map[string]*graph.Vertex)}
	return b.build(d)
}

type builder struct {
	vertices map[string]*graph.Vertex
}

func (b *builder) vertex(name string) *graph.Vertex {
	if v, ok := b.vertices[name]; ok {
		return v
	}
	v := graph.NewVertex(name)
	b.vertices[name] = v
	return v
}

func (b *builder) build(doc *Document) (*graph.Collection, error) {
	name := doc.Name
	if name == "" {
		name = "layout"
	}
	col := graph.NewCollection(graph.CollectionSublayout, name)
	for k, v := range doc.Options {
		col.Options[k] = v
	}

	seen := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.Name == "" {
			return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "node without a name in sublayout %q", name)
		}
		if seen[n.Name] {
			return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "node %q declared twice in sublayout %q", n.Name, name)
		}
		seen[n.Name] = true
		v := b.vertex(n.Name)
		for k, val := range n.Options {
			v.Options[k] = val
		}
		col.Vertices = append(col.Vertices, v)
	}

	for _, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "edge %q -> %q in sublayout %q is missing an endpoint", e.From, e.To, name)
		}
		dir, ok := edgeDirections[e.Direction]
		if !ok {
			return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "edge %q -> %q: unknown direction %q", e.From, e.To, e.Direction)
		}
		for _, endpoint := range []string{e.From, e.To} {
			if !seen[endpoint] {
				if _, known := b.vertices[endpoint]; !known {
					col.Vertices = append(col.Vertices, b.vertex(endpoint))
					seen[endpoint] = true
				}
			}
		}
		edge := graph.NewEdge(b.vertex(e.From), b.vertex(e.To), dir)
		for k, val := range e.Options {
			edge.Options[k] = val
		}
		col.Edges = append(col.Edges, edge)
	}

	for _, sub := range doc.Subgraphs {
		if len(sub.Nodes) == 0 {
			return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "subgraph %q lists no nodes", sub.Name)
		}
		sc := graph.NewCollection(graph.CollectionSubgraphNode, sub.Name)
		for _, n := range sub.Nodes {
			v, ok := b.vertices[n]
			if !ok {
				return nil, gderrors.New(gderrors.ErrCodeInvalidDocument, "subgraph %q references undeclared node %q", sub.Name, n)
			}
			sc.Vertices = append(sc.Vertices, v)
		}
		col.AddChild(sc)
	}

	for i := range doc.Sublayouts {
		child, err := b.build(&doc.Sublayouts[i])
		if err != nil {
			return nil, err
		}
		col.AddChild(child)
	}

	return col, nil
}
