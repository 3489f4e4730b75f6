// Package cut builds cutting primitives from gestures and classifies canvas
// points against them. All primitives live in canvas pixel space.
package cut

import (
	"math"

	"dailyshapes/internal/geom"
)

// Kind tags a primitive variant.
type Kind string

const (
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
	KindCircle  Kind = "circle"
)

// Side is the result of classifying a point against a primitive.
type Side int8

const (
	// OnBoundary points belong to neither side.
	OnBoundary Side = 0
	SideA      Side = 1
	SideB      Side = -1
)

// Primitive is a finished cut. It is the side classifier shared by the
// partition and render passes.
type Primitive interface {
	Kind() Kind
	// Classify puts p on one side of the cut.
	Classify(p geom.Point) Side
	// OnOutline reports whether p lies on the drawn edge of the cut. It is
	// used for colouring only and never changes the side counts.
	OnOutline(p geom.Point) bool
}

// OutlineTolerance is the distance in pixels within which a point counts as
// sitting on a polygon edge.
const OutlineTolerance = 1.0

func dot(a, b geom.Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

// DistanceToSegment returns the distance from p to the segment ab.
func DistanceToSegment(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	lenSq := dot(ab, ab)
	if lenSq == 0 {
		return p.Sub(a).Length()
	}
	t := dot(p.Sub(a), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Length()
}

// PointInTriangle reports whether p lies inside abc, edges included, using
// barycentric coordinates. Degenerate triangles contain nothing.
func PointInTriangle(p, a, b, c geom.Point) bool {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)

	d00 := dot(v0, v0)
	d01 := dot(v0, v1)
	d02 := dot(v0, v2)
	d11 := dot(v1, v1)
	d12 := dot(v1, v2)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return false
	}
	u := (d11*d02 - d01*d12) / denom
	v := (d00*d12 - d01*d02) / denom
	const eps = 1e-9
	return u >= -eps && v >= -eps && u+v <= 1+eps
}

// dragAngle is the angle of the drag vector from anchor to p.
func dragAngle(anchor, p geom.Point) float64 {
	return math.Atan2(p.Y-anchor.Y, p.X-anchor.X)
}
