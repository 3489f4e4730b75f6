package cut

import (
	"math"

	"dailyshapes/internal/geom"
)

// MinLineDrag is the shortest drag, in pixels, that commits a line cut.
const MinLineDrag = 10.0

// axisEpsilon is how close to zero a drag component must be for the line to
// be treated as exactly vertical or horizontal.
const axisEpsilon = 0.001

// Line is an infinite cut whose Start and End sit on the canvas border.
type Line struct {
	Start geom.Point
	End   geom.Point
}

func (Line) Kind() Kind { return KindLine }

// Classify uses the sign of the cross product of the line direction and
// the vector from Start to p.
func (l Line) Classify(p geom.Point) Side {
	dx := l.End.X - l.Start.X
	dy := l.End.Y - l.Start.Y
	c := (p.X-l.Start.X)*dy - (p.Y-l.Start.Y)*dx
	switch {
	case c > 0:
		return SideA
	case c < 0:
		return SideB
	default:
		return OnBoundary
	}
}

// OnOutline reports whether p is exactly on the line.
func (l Line) OnOutline(p geom.Point) bool {
	return l.Classify(p) == OnBoundary
}

// NormalizeSegment orders a and b so that the first point has the smaller x.
func NormalizeSegment(a, b geom.Point) (geom.Point, geom.Point) {
	if a.X > b.X {
		return b, a
	}
	return a, b
}

// ExtendLine stretches the line through a and b to the border of a
// width×height canvas. The segment is normalized first so both drag
// directions give the same sides. If the line never crosses the canvas the
// normalized points are returned as they are.
func ExtendLine(a, b geom.Point, width, height float64) Line {
	a, b = NormalizeSegment(a, b)
	dx := b.X - a.X
	dy := b.Y - a.Y

	if math.Abs(dx) < axisEpsilon {
		if math.Abs(dy) < axisEpsilon {
			return Line{Start: a, End: b}
		}
		return VerticalLine(a.X, height)
	}
	if math.Abs(dy) < axisEpsilon {
		return HorizontalLine(a.Y, width)
	}

	slope := dy / dx
	intercept := a.Y - slope*a.X

	candidates := []geom.Point{
		geom.Pt(0, intercept),
		geom.Pt(width, slope*width+intercept),
		geom.Pt(-intercept/slope, 0),
		geom.Pt((height-intercept)/slope, height),
	}
	var hits []geom.Point
	for _, p := range candidates {
		if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
			continue
		}
		if containsPoint(hits, p) {
			continue
		}
		hits = append(hits, p)
		if len(hits) == 2 {
			break
		}
	}
	if len(hits) < 2 {
		return Line{Start: a, End: b}
	}
	// keep the drag direction so sides stay stable
	if (hits[1].X-hits[0].X)*dx+(hits[1].Y-hits[0].Y)*dy < 0 {
		hits[0], hits[1] = hits[1], hits[0]
	}
	return Line{Start: hits[0], End: hits[1]}
}

// containsPoint reports whether p is already in pts. Lines through a
// corner hit two edges at the same spot.
func containsPoint(pts []geom.Point, p geom.Point) bool {
	for _, q := range pts {
		if math.Abs(q.X-p.X) < 1e-9 && math.Abs(q.Y-p.Y) < 1e-9 {
			return true
		}
	}
	return false
}

// HorizontalLine spans the canvas at height y.
func HorizontalLine(y, width float64) Line {
	return Line{Start: geom.Pt(0, y), End: geom.Pt(width, y)}
}

// VerticalLine spans the canvas at x.
func VerticalLine(x, height float64) Line {
	return Line{Start: geom.Pt(x, 0), End: geom.Pt(x, height)}
}

// DiagonalDirection picks one of the two 45 degree orientations. Screen y
// grows downwards, so an ascending diagonal has slope -1.
type DiagonalDirection int

const (
	Ascending DiagonalDirection = iota
	Descending
)

// unit returns the on-screen direction of the diagonal.
func (d DiagonalDirection) unit() geom.Point {
	if d == Ascending {
		return geom.Pt(1, -1)
	}
	return geom.Pt(1, 1)
}

// ProjectDiagonal snaps the drag from anchor to p onto the diagonal through
// anchor. It returns the snapped end point and its distance from anchor.
func ProjectDiagonal(anchor, p geom.Point, d DiagonalDirection) (geom.Point, float64) {
	dx := p.X - anchor.X
	dy := p.Y - anchor.Y
	var t float64
	if d == Ascending {
		t = (dx - dy) / 2
	} else {
		t = (dx + dy) / 2
	}
	end := anchor.Add(d.unit().Mul(t))
	return end, math.Abs(t) * math.Sqrt2
}

// DiagonalLine spans the canvas along the diagonal through anchor.
func DiagonalLine(anchor geom.Point, d DiagonalDirection, width, height float64) Line {
	return ExtendLine(anchor, anchor.Add(d.unit().Mul(10)), width, height)
}
