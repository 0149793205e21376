package geo

// CubicAt evaluates the cubic Bézier with endpoints p0, p3 and control
// points p1, p2 at parameter t in [0,1].
func CubicAt(p0, p1, p2, p3 Coordinate, t float64) Coordinate {
	u := 1 - t
	return p0.Scale(u * u * u).
		Add(p1.Scale(3 * u * u * t)).
		Add(p2.Scale(3 * u * t * t)).
		Add(p3.Scale(t * t * t))
}

// splitCubic subdivides the cubic at t = 1/2 using de Casteljau's scheme,
// returning the control polygons of the two halves.
func splitCubic(p0, p1, p2, p3 Coordinate) (l0, l1, l2, l3, r1, r2, r3 Coordinate) {
	m01 := Midpoint(p0, p1)
	m12 := Midpoint(p1, p2)
	m23 := Midpoint(p2, p3)
	m012 := Midpoint(m01, m12)
	m123 := Midpoint(m12, m23)
	mid := Midpoint(m012, m123)
	return p0, m01, m012, mid, m123, m23, p3
}

// cubicFlat reports whether the control polygon deviates from the chord
// p0-p3 by less than tol.
func cubicFlat(p0, p1, p2, p3 Coordinate, tol float64) bool {
	return distToSegment(p1, p0, p3) < tol && distToSegment(p2, p0, p3) < tol
}

// flattenCubic approximates the cubic by a polyline via recursive
// subdivision, stopping once each piece is flat. The returned slice starts
// at p0 and ends at p3.
func flattenCubic(p0, p1, p2, p3 Coordinate) []Coordinate {
	const tol = 1e-3
	const maxDepth = 16
	pts := []Coordinate{p0}
	var rec func(a, b, c, d Coordinate, depth int)
	rec = func(a, b, c, d Coordinate, depth int) {
		if depth >= maxDepth || cubicFlat(a, b, c, d, tol) {
			pts = append(pts, d)
			return
		}
		l0, l1, l2, l3, r1, r2, r3 := splitCubic(a, b, c, d)
		rec(l0, l1, l2, l3, depth+1)
		rec(l3, r1, r2, r3, depth+1)
	}
	rec(p0, p1, p2, p3, 0)
	return pts
}
