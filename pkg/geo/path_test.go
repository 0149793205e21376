package geo

import (
	"math"
	"testing"
)

func TestVerbArity(t *testing.T) {
	tests := []struct {
		verb Verb
		want int
	}{
		{VerbMoveTo, 1},
		{VerbLineTo, 1},
		{VerbCurveTo, 3},
		{VerbClose, 0},
	}
	for _, tt := range tests {
		if got := tt.verb.PointCount(); got != tt.want {
			t.Errorf("%v.PointCount() = %d, want %d", tt.verb, got, tt.want)
		}
	}
}

func TestRigidResolvesDeferred(t *testing.T) {
	anchor := Coordinate{5, 5}
	p := NewPath().
		AppendMoveTo(Coordinate{0, 0}).
		AppendLineToFunc(func() Coordinate { return anchor })

	if p.IsRigid() {
		t.Fatal("IsRigid() = true before Rigid(), want false")
	}
	p.Rigid()
	if !p.IsRigid() {
		t.Fatal("IsRigid() = false after Rigid(), want true")
	}
	coords := p.Coordinates()
	if coords[1] != anchor {
		t.Errorf("deferred slot resolved to %v, want %v", coords[1], anchor)
	}
}

func TestNonRigidQueryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("BoundingBox on non-rigid path did not panic")
		}
	}()
	p := NewPath().AppendMoveToFunc(func() Coordinate { return Coordinate{} })
	p.BoundingBox()
}

func TestReversedRoundTrip(t *testing.T) {
	p := NewPath().
		AppendMoveTo(Coordinate{0, 0}).
		AppendLineTo(Coordinate{1, 0}).
		AppendCurveTo(Coordinate{1.5, 0.5}, Coordinate{1.5, 1.5}, Coordinate{1, 2}).
		AppendLineTo(Coordinate{0, 2}).
		AppendClose()

	rr := p.Reversed().Reversed()

	got := rr.Coordinates()
	want := p.Coordinates()
	if len(got) != len(want) {
		t.Fatalf("Reversed().Reversed() has %d coordinates, want %d", len(got), len(want))
	}
	for i := range want {
		if Distance(got[i], want[i]) > 1e-9 {
			t.Errorf("coordinate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReversedEndpoints(t *testing.T) {
	p := PathFromPoints(Coordinate{0, 0}, Coordinate{3, 0}, Coordinate{3, 3})
	r := p.Reversed()
	coords := r.Coordinates()
	if coords[0] != (Coordinate{3, 3}) {
		t.Errorf("Reversed() starts at %v, want (3,3)", coords[0])
	}
	if coords[len(coords)-1] != (Coordinate{0, 0}) {
		t.Errorf("Reversed() ends at %v, want (0,0)", coords[len(coords)-1])
	}
}

func TestBoundingBox(t *testing.T) {
	p := PathFromPoints(Coordinate{-1, 2}, Coordinate{3, -4}, Coordinate{0, 0})
	min, max := p.BoundingBox()
	if min != (Coordinate{-1, -4}) {
		t.Errorf("min = %v, want (-1,-4)", min)
	}
	if max != (Coordinate{3, 2}) {
		t.Errorf("max = %v, want (3,2)", max)
	}
}

func TestIntersectionsSegments(t *testing.T) {
	// A cross: horizontal and vertical segment meet once at the origin.
	h := PathFromPoints(Coordinate{-1, 0}, Coordinate{1, 0})
	v := PathFromPoints(Coordinate{0, -1}, Coordinate{0, 1})

	hits := h.Intersections(v)
	if len(hits) != 1 {
		t.Fatalf("Intersections() found %d points, want 1", len(hits))
	}
	if Distance(hits[0], Coordinate{0, 0}) > 1e-9 {
		t.Errorf("intersection at %v, want origin", hits[0])
	}
}

func TestIntersectionsOrderedAlongReceiver(t *testing.T) {
	// A long horizontal line crossing a rectangle: two hits, left first.
	line := PathFromPoints(Coordinate{-10, 0}, Coordinate{10, 0})
	rect := RectangleOutline(4, 4)

	hits := line.Intersections(rect.Rigid())
	if len(hits) != 2 {
		t.Fatalf("Intersections() found %d points, want 2", len(hits))
	}
	if hits[0].X >= hits[1].X {
		t.Errorf("hits not ordered along receiver: %v before %v", hits[0], hits[1])
	}
	if math.Abs(hits[0].X+2) > 1e-9 || math.Abs(hits[1].X-2) > 1e-9 {
		t.Errorf("hits = %v, want x = -2 and +2", hits)
	}
}

func TestIntersectionsCurve(t *testing.T) {
	// A vertical line through an ellipse built from Bézier arcs.
	line := PathFromPoints(Coordinate{0, -10}, Coordinate{0, 10})
	ellipse := EllipseOutline(3, 2)

	hits := line.Intersections(ellipse)
	if len(hits) != 2 {
		t.Fatalf("Intersections() found %d points, want 2", len(hits))
	}
	for _, h := range hits {
		if math.Abs(math.Abs(h.Y)-2) > 0.05 {
			t.Errorf("hit at %v, want |y| close to 2", h)
		}
	}
}

func TestPadGrowsBoundingBox(t *testing.T) {
	rect := RectangleOutline(2, 2)
	padded := rect.Pad(1)

	min, max := padded.BoundingBox()
	if math.Abs(min.X+2) > 1e-6 || math.Abs(max.X-2) > 1e-6 {
		t.Errorf("padded box x range [%v,%v], want [-2,2]", min.X, max.X)
	}
	if math.Abs(min.Y+2) > 1e-6 || math.Abs(max.Y-2) > 1e-6 {
		t.Errorf("padded box y range [%v,%v], want [-2,2]", min.Y, max.Y)
	}
}

func TestCutStartAndEnd(t *testing.T) {
	// An edge path from the center of a 2x2 square out to (10,0). Cutting
	// at the outline must move the start to the boundary at x=1.
	edge := PathFromPoints(Coordinate{0, 0}, Coordinate{10, 0})
	outline := RectangleOutline(2, 2)

	cut := edge.CutStart(outline)
	coords := cut.Coordinates()
	if math.Abs(coords[0].X-1) > 1e-6 || math.Abs(coords[0].Y) > 1e-6 {
		t.Errorf("CutStart begins at %v, want (1,0)", coords[0])
	}

	// Symmetrically, an edge ending inside an outline at (10,0).
	tail := PathFromPoints(Coordinate{0, 0}, Coordinate{10, 0})
	target := RectangleOutline(2, 2).Shift(10, 0)
	cut = tail.CutEnd(target)
	coords = cut.Coordinates()
	last := coords[len(coords)-1]
	if math.Abs(last.X-9) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Errorf("CutEnd ends at %v, want (9,0)", last)
	}
}

func TestCutNoIntersection(t *testing.T) {
	edge := PathFromPoints(Coordinate{5, 5}, Coordinate{6, 6})
	outline := RectangleOutline(2, 2)
	if got := edge.CutStart(outline); got != edge {
		t.Error("CutStart without intersection should return the path unchanged")
	}
}

func TestTransformAndShift(t *testing.T) {
	p := PathFromPoints(Coordinate{1, 1}, Coordinate{2, 2})
	p.Shift(1, -1)
	coords := p.Coordinates()
	if coords[0] != (Coordinate{2, 0}) || coords[1] != (Coordinate{3, 1}) {
		t.Errorf("Shift() = %v, want [(2,0) (3,1)]", coords)
	}
}

func TestCubicAtEndpoints(t *testing.T) {
	p0 := Coordinate{0, 0}
	p1 := Coordinate{1, 2}
	p2 := Coordinate{3, 2}
	p3 := Coordinate{4, 0}
	if got := CubicAt(p0, p1, p2, p3, 0); got != p0 {
		t.Errorf("CubicAt(0) = %v, want %v", got, p0)
	}
	if got := CubicAt(p0, p1, p2, p3, 1); got != p3 {
		t.Errorf("CubicAt(1) = %v, want %v", got, p3)
	}
}
