// Package dot renders laid-out digraphs to Graphviz DOT and, through
// Graphviz, to SVG or PNG. Positions computed by the layout engine are
// pinned, so Graphviz only draws and never re-lays-out the graph.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Name is the graph name emitted in the DOT header.
	Name string

	// Scale multiplies layout coordinates into Graphviz points. Layout
	// units are on the order of a node distance, so the default of 72
	// maps one unit to one inch.
	Scale float64

	// Detailed includes vertex options in node labels.
	Detailed bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 72
	}
	return o.Scale
}

// ToDOT converts a laid-out digraph to DOT with pinned positions. Dummy
// vertices are drawn as points so routed edge bends stay visible without
// cluttering the picture.
func ToDOT(d *graph.Digraph, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}
	s := opts.scale()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("\n")

	for _, v := range d.Vertices() {
		attrs := vertexAttrs(v, opts)
		fmt.Fprintf(&buf, "  %q [pos=\"%.2f,%.2f!\", %s];\n", v.Name, v.Pos.X*s, v.Pos.Y*s, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range d.Arcs() {
		if pts := arcPoints(a, s); pts != "" {
			fmt.Fprintf(&buf, "  %q -> %q [pos=%q];\n", a.Tail.Name, a.Head.Name, pts)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", a.Tail.Name, a.Head.Name)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func vertexAttrs(v *graph.Vertex, opts Options) []string {
	if v.IsDummy() {
		return []string{"shape=point", "width=0.05", "label=\"\""}
	}
	label := v.Name
	if opts.Detailed && len(v.Options) > 0 {
		parts := []string{label}
		for _, k := range slices.Sorted(maps.Keys(v.Options)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v.Options[k]))
		}
		label = strings.Join(parts, "\n")
	}
	return []string{fmt.Sprintf("label=%q", label)}
}

// arcPoints formats a routed polyline as a DOT edge pos attribute, empty
// when the arc carries no usable path.
func arcPoints(a *graph.Arc, scale float64) string {
	if a.Path == nil || !a.Path.IsRigid() {
		return ""
	}
	coords := a.Path.Coordinates()
	if len(coords) < 2 {
		return ""
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%.2f,%.2f", c.X*scale, c.Y*scale)
	}
	return strings.Join(parts, " ")
}

// RenderSVG renders DOT to SVG. The neato engine honors the pinned pos
// attributes emitted by [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
