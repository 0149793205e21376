package geo

// RectangleOutline returns a closed rectangle path of the given width and
// height centered on the origin. This is the default vertex outline when a
// graph document gives only node dimensions.
func RectangleOutline(width, height float64) *Path {
	w, h := width/2, height/2
	return NewPath().
		AppendMoveTo(Coordinate{-w, -h}).
		AppendLineTo(Coordinate{w, -h}).
		AppendLineTo(Coordinate{w, h}).
		AppendLineTo(Coordinate{-w, h}).
		AppendClose()
}

// kappa is the control point offset factor approximating a quarter circle
// with a cubic Bézier.
const kappa = 0.5522847498307936

// EllipseOutline returns a closed path approximating an ellipse with the
// given radii centered on the origin, built from four cubic Bézier arcs.
func EllipseOutline(rx, ry float64) *Path {
	cx, cy := rx*kappa, ry*kappa
	return NewPath().
		AppendMoveTo(Coordinate{rx, 0}).
		AppendCurveTo(Coordinate{rx, cy}, Coordinate{cx, ry}, Coordinate{0, ry}).
		AppendCurveTo(Coordinate{-cx, ry}, Coordinate{-rx, cy}, Coordinate{-rx, 0}).
		AppendCurveTo(Coordinate{-rx, -cy}, Coordinate{-cx, -ry}, Coordinate{0, -ry}).
		AppendCurveTo(Coordinate{cx, -ry}, Coordinate{rx, -cy}, Coordinate{rx, 0}).
		AppendClose()
}
