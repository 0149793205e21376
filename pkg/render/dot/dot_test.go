package dot

import (
	"strings"
	"testing"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

func TestToDOTPinsPositions(t *testing.T) {
	d := graph.New(nil)
	a := graph.NewVertex("a")
	b := graph.NewVertex("b")
	b.Pos = geo.Coordinate{X: 2, Y: 1}
	if err := d.Add(a, b); err != nil {
		t.Fatal(err)
	}
	d.MustConnect(a, b)

	out := ToDOT(d, Options{Name: "demo"})

	if !strings.Contains(out, `digraph "demo" {`) {
		t.Errorf("missing graph header:\n%s", out)
	}
	if !strings.Contains(out, `"a" [pos="0.00,0.00!"`) {
		t.Errorf("vertex a not pinned at origin:\n%s", out)
	}
	if !strings.Contains(out, `"b" [pos="144.00,72.00!"`) {
		t.Errorf("vertex b not pinned at scaled position:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b"`) {
		t.Errorf("missing arc:\n%s", out)
	}
}

func TestToDOTRoutedArc(t *testing.T) {
	d := graph.New(nil)
	a := graph.NewVertex("a")
	b := graph.NewVertex("b")
	b.Pos = geo.Coordinate{X: 2, Y: 0}
	if err := d.Add(a, b); err != nil {
		t.Fatal(err)
	}
	arc := d.MustConnect(a, b)
	arc.Path = geo.PathFromPoints(a.Pos, geo.Coordinate{X: 1, Y: 1}, b.Pos)

	out := ToDOT(d, Options{Scale: 1})
	if !strings.Contains(out, `pos="0.00,0.00 1.00,1.00 2.00,0.00"`) {
		t.Errorf("routed arc not emitted:\n%s", out)
	}
}

func TestToDOTDummyVertices(t *testing.T) {
	d := graph.New(nil)
	v := graph.NewDummyVertex("bend")
	if err := d.Add(v); err != nil {
		t.Fatal(err)
	}
	out := ToDOT(d, Options{})
	if !strings.Contains(out, "shape=point") {
		t.Errorf("dummy vertex not drawn as point:\n%s", out)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	d := graph.New(nil)
	v := graph.NewVertex("a")
	v.Options["weight"] = 2
	if err := d.Add(v); err != nil {
		t.Fatal(err)
	}
	out := ToDOT(d, Options{Detailed: true})
	if !strings.Contains(out, "weight: 2") {
		t.Errorf("detailed label missing option:\n%s", out)
	}
}
