package geo

import (
	"math"
	"slices"
	"sort"
)

// Verb is a path construction command.
type Verb uint8

// Path verb constants.
const (
	// VerbMoveTo starts a new subpath at the following coordinate.
	VerbMoveTo Verb = iota
	// VerbLineTo draws a straight segment to the following coordinate.
	VerbLineTo
	// VerbCurveTo draws a cubic Bézier curve. It consumes exactly three
	// coordinates: two control points followed by the end point.
	VerbCurveTo
	// VerbClose closes the current subpath back to its starting point.
	VerbClose
)

// String returns a human-readable name for the verb.
func (v Verb) String() string {
	switch v {
	case VerbMoveTo:
		return "MoveTo"
	case VerbLineTo:
		return "LineTo"
	case VerbCurveTo:
		return "CurveTo"
	case VerbClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// PointCount returns the number of coordinate slots this verb consumes.
func (v Verb) PointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbCurveTo:
		return 3
	case VerbClose:
		return 0
	default:
		return 0
	}
}

// slot is one coordinate position of a path. It holds either a concrete
// coordinate or a deferred coordinate produced by a closure, resolved by
// [Path.Rigid] before any geometric query. Deferred coordinates stand in for
// anchor positions that are not fixed yet at path construction time.
type slot struct {
	c  Coordinate
	fn func() Coordinate
}

// Path is an ordered sequence of segment verbs interleaved with coordinate
// slots. The verb arity invariant holds at all times: every verb is followed
// by exactly [Verb.PointCount] coordinate slots.
//
// Lifecycle: a path is created empty (or from a literal point list), mutated
// by Append* calls during layout, rigidified once all referenced positions
// are fixed, and only then queried geometrically. Geometric queries on a
// non-rigid path panic, since that indicates an ordering bug in the caller.
type Path struct {
	verbs []Verb
	slots []slot
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// PathFromPoints creates a rigid polyline path through the given points:
// a MoveTo to the first point followed by LineTo segments.
func PathFromPoints(pts ...Coordinate) *Path {
	p := NewPath()
	for i, pt := range pts {
		if i == 0 {
			p.AppendMoveTo(pt)
		} else {
			p.AppendLineTo(pt)
		}
	}
	return p
}

// Len returns the number of verbs in the path.
func (p *Path) Len() int { return len(p.verbs) }

// Empty reports whether the path contains no verbs.
func (p *Path) Empty() bool { return len(p.verbs) == 0 }

// AppendMoveTo starts a new subpath at c.
func (p *Path) AppendMoveTo(c Coordinate) *Path {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.slots = append(p.slots, slot{c: c})
	return p
}

// AppendMoveToFunc starts a new subpath at a deferred coordinate.
func (p *Path) AppendMoveToFunc(fn func() Coordinate) *Path {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.slots = append(p.slots, slot{fn: fn})
	return p
}

// AppendLineTo draws a straight segment to c.
func (p *Path) AppendLineTo(c Coordinate) *Path {
	p.verbs = append(p.verbs, VerbLineTo)
	p.slots = append(p.slots, slot{c: c})
	return p
}

// AppendLineToFunc draws a straight segment to a deferred coordinate.
func (p *Path) AppendLineToFunc(fn func() Coordinate) *Path {
	p.verbs = append(p.verbs, VerbLineTo)
	p.slots = append(p.slots, slot{fn: fn})
	return p
}

// AppendCurveTo draws a cubic Bézier curve with control points c1, c2
// ending at end.
func (p *Path) AppendCurveTo(c1, c2, end Coordinate) *Path {
	p.verbs = append(p.verbs, VerbCurveTo)
	p.slots = append(p.slots, slot{c: c1}, slot{c: c2}, slot{c: end})
	return p
}

// AppendCurveToFunc draws a cubic Bézier curve whose three trailing
// coordinates are deferred.
func (p *Path) AppendCurveToFunc(c1, c2, end func() Coordinate) *Path {
	p.verbs = append(p.verbs, VerbCurveTo)
	p.slots = append(p.slots, slot{fn: c1}, slot{fn: c2}, slot{fn: end})
	return p
}

// AppendClose closes the current subpath.
func (p *Path) AppendClose() *Path {
	p.verbs = append(p.verbs, VerbClose)
	return p
}

// AppendPath appends all verbs and slots of o to p.
func (p *Path) AppendPath(o *Path) *Path {
	p.verbs = append(p.verbs, o.verbs...)
	p.slots = append(p.slots, o.slots...)
	return p
}

// Clone returns a deep copy of the path. Deferred slots share their closures.
func (p *Path) Clone() *Path {
	return &Path{
		verbs: slices.Clone(p.verbs),
		slots: slices.Clone(p.slots),
	}
}

// IsRigid reports whether all coordinate slots are concrete.
func (p *Path) IsRigid() bool {
	for _, s := range p.slots {
		if s.fn != nil {
			return false
		}
	}
	return true
}

// Rigid resolves all deferred coordinate slots in place by invoking their
// closures. It must be called before any geometric query once the referenced
// positions are fixed. Rigid is idempotent.
func (p *Path) Rigid() *Path {
	for i, s := range p.slots {
		if s.fn != nil {
			p.slots[i] = slot{c: s.fn()}
		}
	}
	return p
}

// mustRigid panics if the path still contains deferred coordinates.
// Geometric queries on a non-rigid path are a programming-contract violation.
func (p *Path) mustRigid() {
	if !p.IsRigid() {
		panic("geo: geometric query on non-rigid path; call Rigid first")
	}
}

// Coordinates returns the concrete coordinates of the path in order.
// The path must be rigid.
func (p *Path) Coordinates() []Coordinate {
	p.mustRigid()
	out := make([]Coordinate, len(p.slots))
	for i, s := range p.slots {
		out[i] = s.c
	}
	return out
}

// Transform replaces every concrete coordinate by fn(coordinate). Deferred
// slots are left untouched; rigidify first if they must be transformed too.
func (p *Path) Transform(fn func(Coordinate) Coordinate) *Path {
	for i, s := range p.slots {
		if s.fn == nil {
			p.slots[i].c = fn(s.c)
		}
	}
	return p
}

// Shift translates every concrete coordinate by (dx, dy).
func (p *Path) Shift(dx, dy float64) *Path {
	return p.Transform(func(c Coordinate) Coordinate {
		return Coordinate{c.X + dx, c.Y + dy}
	})
}

// Reversed returns a new path traversing p's subpaths in reverse direction.
// The sequence of coordinates and curves is preserved up to segment
// direction, so Reversed().Reversed() is geometrically equivalent to the
// original. The path must be rigid.
func (p *Path) Reversed() *Path {
	p.mustRigid()
	out := NewPath()

	type step struct {
		verb Verb
		pts  []Coordinate
	}

	var subpath []step
	var start Coordinate
	var closed bool

	flush := func() {
		if len(subpath) == 0 {
			return
		}
		// Walk the subpath backwards, swapping segment endpoints.
		last := subpath[len(subpath)-1]
		end := last.pts[len(last.pts)-1]
		out.AppendMoveTo(end)
		for i := len(subpath) - 1; i >= 1; i-- {
			prev := subpath[i-1]
			from := prev.pts[len(prev.pts)-1]
			cur := subpath[i]
			switch cur.verb {
			case VerbLineTo:
				out.AppendLineTo(from)
			case VerbCurveTo:
				out.AppendCurveTo(cur.pts[1], cur.pts[0], from)
			}
		}
		// First segment of the original connects back to the subpath start.
		first := subpath[0]
		switch first.verb {
		case VerbLineTo:
			out.AppendLineTo(start)
		case VerbCurveTo:
			out.AppendCurveTo(first.pts[1], first.pts[0], start)
		case VerbMoveTo:
			// Single MoveTo subpath, already emitted.
		}
		if closed {
			out.AppendClose()
		}
		subpath = nil
		closed = false
	}

	si := 0
	for _, v := range p.verbs {
		n := v.PointCount()
		pts := make([]Coordinate, n)
		for j := 0; j < n; j++ {
			pts[j] = p.slots[si+j].c
		}
		si += n

		switch v {
		case VerbMoveTo:
			flush()
			start = pts[0]
			subpath = append(subpath, step{VerbMoveTo, pts})
		case VerbClose:
			closed = true
		default:
			subpath = append(subpath, step{v, pts})
		}
	}
	flush()
	return out
}

// BoundingBox returns the axis-aligned bounding box of the path as its
// min and max corners. Bézier control points are included, giving a
// conservative box. The path must be rigid and non-empty.
func (p *Path) BoundingBox() (min, max Coordinate) {
	p.mustRigid()
	if len(p.slots) == 0 {
		panic("geo: bounding box of empty path")
	}
	min = Coordinate{math.Inf(1), math.Inf(1)}
	max = Coordinate{math.Inf(-1), math.Inf(-1)}
	for _, s := range p.slots {
		min.X = math.Min(min.X, s.c.X)
		min.Y = math.Min(min.Y, s.c.Y)
		max.X = math.Max(max.X, s.c.X)
		max.Y = math.Max(max.Y, s.c.Y)
	}
	return min, max
}

// segment is a straight piece of a flattened path, remembering its position
// along the path for intersection ordering: index of the originating verb
// and the local parameter interval it covers.
type segment struct {
	a, b Coordinate
	verb int
	t0   float64
}

// flatten converts the rigid path into straight segments. Cubic Bézier
// curves are subdivided recursively until flat.
func (p *Path) flatten() []segment {
	p.mustRigid()
	var segs []segment
	var cur, start Coordinate
	si := 0
	for vi, v := range p.verbs {
		switch v {
		case VerbMoveTo:
			cur = p.slots[si].c
			start = cur
			si++
		case VerbLineTo:
			next := p.slots[si].c
			segs = append(segs, segment{cur, next, vi, 0})
			cur = next
			si++
		case VerbCurveTo:
			c1, c2, end := p.slots[si].c, p.slots[si+1].c, p.slots[si+2].c
			pts := flattenCubic(cur, c1, c2, end)
			for i := 0; i+1 < len(pts); i++ {
				t0 := float64(i) / float64(len(pts)-1)
				segs = append(segs, segment{pts[i], pts[i+1], vi, t0})
			}
			cur = end
			si += 3
		case VerbClose:
			if cur != start {
				segs = append(segs, segment{cur, start, vi, 0})
			}
			cur = start
		}
	}
	return segs
}

// Intersections returns the intersection points of p with other, ordered
// monotonically along p. Both paths must be rigid. Curve/segment and
// curve/curve cases are handled by flattening curves via recursive
// subdivision before exact segment/segment intersection.
func (p *Path) Intersections(other *Path) []Coordinate {
	pa := p.flatten()
	pb := other.flatten()

	type hit struct {
		pt   Coordinate
		verb int
		t    float64
	}
	var hits []hit
	for _, sa := range pa {
		for _, sb := range pb {
			if pt, t, ok := segmentIntersection(sa.a, sa.b, sb.a, sb.b); ok {
				hits = append(hits, hit{pt, sa.verb, sa.t0 + t})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].verb != hits[j].verb {
			return hits[i].verb < hits[j].verb
		}
		return hits[i].t < hits[j].t
	})

	const coincident = 1e-9
	var out []Coordinate
	for _, h := range hits {
		if len(out) > 0 && Distance(out[len(out)-1], h.pt) < coincident {
			continue
		}
		out = append(out, h.pt)
	}
	return out
}

// segmentIntersection intersects segments a1-a2 and b1-b2. It returns the
// intersection point, the parameter along a1-a2, and whether the segments
// properly intersect. Parallel and degenerate segments do not intersect.
func segmentIntersection(a1, a2, b1, b2 Coordinate) (Coordinate, float64, bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if denom == 0 {
		return Coordinate{}, 0, false
	}
	w := b1.Sub(a1)
	t := (w.X*d2.Y - w.Y*d2.X) / denom
	u := (w.X*d1.Y - w.Y*d1.X) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Coordinate{}, 0, false
	}
	return a1.Add(d1.Scale(t)), t, true
}

// Pad returns a copy of the path offset outward by dist along the segment
// normals, with curves subdivided into polylines first. The path must be
// rigid and describe a closed outline. Negative dist shrinks the outline.
func (p *Path) Pad(dist float64) *Path {
	segs := p.flatten()
	if len(segs) == 0 {
		return p.Clone()
	}

	pts := make([]Coordinate, 0, len(segs))
	for _, s := range segs {
		pts = append(pts, s.a)
	}
	// Drop a duplicated closing point.
	if len(pts) > 1 && Distance(segs[len(segs)-1].b, pts[0]) > 1e-9 {
		pts = append(pts, segs[len(segs)-1].b)
	}

	// Orientation decides which side is outward.
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	// For counter-clockwise outlines (positive area) the right-hand
	// normal already points outward; clockwise ones need flipping.
	sign := 1.0
	if area < 0 {
		sign = -1.0
	}

	out := NewPath()
	for i, pt := range pts {
		prev := pts[(i-1+len(pts))%len(pts)]
		next := pts[(i+1)%len(pts)]
		n1 := normalOf(prev, pt)
		n2 := normalOf(pt, next)
		m := n1.Add(n2).Normed()
		// Miter offset: lengthen along the bisector so both adjacent
		// edges end up exactly dist away. Clamped for near-reversals.
		cos := m.Dot(n1)
		if cos < 0.1 {
			cos = 0.1
		}
		moved := pt.Add(m.Scale(sign * dist / cos))
		if i == 0 {
			out.AppendMoveTo(moved)
		} else {
			out.AppendLineTo(moved)
		}
	}
	out.AppendClose()
	return out
}

// normalOf returns the unit normal of segment a-b pointing to its right.
func normalOf(a, b Coordinate) Coordinate {
	d := b.Sub(a).Normed()
	return Coordinate{d.Y, -d.X}
}

// CutStart truncates the path so it starts at its first intersection with
// the outline, dropping the portion before it (the piece hidden inside a
// vertex shape). If path and outline do not intersect, the path is returned
// unchanged. Both paths must be rigid.
func (p *Path) CutStart(outline *Path) *Path {
	hits := p.Intersections(outline)
	if len(hits) == 0 {
		return p
	}
	return p.cutAt(hits[0], true)
}

// CutEnd truncates the path so it ends at its last intersection with the
// outline, dropping the trailing portion. If path and outline do not
// intersect, the path is returned unchanged. Both paths must be rigid.
func (p *Path) CutEnd(outline *Path) *Path {
	hits := p.Intersections(outline)
	if len(hits) == 0 {
		return p
	}
	return p.cutAt(hits[len(hits)-1], false)
}

// cutAt rebuilds the flattened path truncated at pt. keepTail selects the
// portion after (true) or before (false) the cut point.
func (p *Path) cutAt(pt Coordinate, keepTail bool) *Path {
	segs := p.flatten()
	cutIdx := -1
	const eps = 1e-7
	for i, s := range segs {
		if distToSegment(pt, s.a, s.b) < eps {
			cutIdx = i
			break
		}
	}
	if cutIdx < 0 {
		return p
	}

	out := NewPath()
	if keepTail {
		out.AppendMoveTo(pt)
		if Distance(pt, segs[cutIdx].b) > eps {
			out.AppendLineTo(segs[cutIdx].b)
		}
		for _, s := range segs[cutIdx+1:] {
			out.AppendLineTo(s.b)
		}
	} else {
		out.AppendMoveTo(segs[0].a)
		for _, s := range segs[:cutIdx] {
			out.AppendLineTo(s.b)
		}
		if Distance(pt, segs[cutIdx].a) > eps {
			out.AppendLineTo(pt)
		}
	}
	return out
}

// distToSegment returns the distance from pt to segment a-b.
func distToSegment(pt, a, b Coordinate) float64 {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return Distance(pt, a)
	}
	t := math.Max(0, math.Min(1, pt.Sub(a).Dot(d)/l2))
	return Distance(pt, a.Add(d.Scale(t)))
}

// String renders the path as a compact verb/coordinate listing, mainly for
// debugging and test failure messages.
func (p *Path) String() string {
	s := ""
	si := 0
	for _, v := range p.verbs {
		s += v.String()
		for j := 0; j < v.PointCount(); j++ {
			sl := p.slots[si]
			if sl.fn != nil {
				s += " <deferred>"
			} else {
				s += " " + sl.c.String()
			}
			si++
		}
		s += "; "
	}
	return s
}
