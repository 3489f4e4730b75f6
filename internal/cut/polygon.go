package cut

import (
	"math"

	"dailyshapes/internal/geom"
)

const (
	// MinTriangleRadius is the smallest triangle radius that commits.
	MinTriangleRadius = 10.0
	// MinSquareHalf is the smallest half side of a rotating square.
	MinSquareHalf = 30.0
)

// Polygon is a closed convex cut such as the triangle or the rotating
// square. Inside points are SideA.
type Polygon struct {
	Points []geom.Point
}

func (Polygon) Kind() Kind { return KindPolygon }

// Classify fans the polygon into triangles from its first vertex and runs
// the barycentric test on each.
func (p Polygon) Classify(pt geom.Point) Side {
	if p.Contains(pt) {
		return SideA
	}
	return SideB
}

// Contains reports whether pt is inside the polygon, edges included.
func (p Polygon) Contains(pt geom.Point) bool {
	if len(p.Points) < 3 {
		return false
	}
	a := p.Points[0]
	for i := 1; i+1 < len(p.Points); i++ {
		if PointInTriangle(pt, a, p.Points[i], p.Points[i+1]) {
			return true
		}
	}
	return false
}

// OnOutline reports whether pt is within OutlineTolerance of an edge.
func (p Polygon) OnOutline(pt geom.Point) bool {
	n := len(p.Points)
	for i := range n {
		if DistanceToSegment(pt, p.Points[i], p.Points[(i+1)%n]) <= OutlineTolerance {
			return true
		}
	}
	return false
}

// regular returns n vertices at radius around center, the first one at
// -90 degrees plus rotation.
func regular(center geom.Point, radius, rotation float64, n int) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range n {
		a := -math.Pi/2 + rotation + float64(i)*2*math.Pi/float64(n)
		pts[i] = geom.Pt(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
	return pts
}

// EquilateralTriangle places the vertices at -90°+rotation, 30°+rotation
// and 150°+rotation from center.
func EquilateralTriangle(center geom.Point, radius, rotation float64) Polygon {
	return Polygon{Points: regular(center, radius, rotation, 3)}
}

// TriangleFromDrag builds the triangle for a drag from center to p. The
// pointer snaps to an edge midpoint, which sits at half the circumradius,
// so the radius is twice the drag length.
func TriangleFromDrag(center, p geom.Point) (Polygon, float64) {
	radius := 2 * p.Sub(center).Length()
	rotation := dragAngle(center, p) + math.Pi/6
	return EquilateralTriangle(center, radius, rotation), radius
}

// RotatedSquare returns a square with the given half side, turned by
// rotation radians around center.
func RotatedSquare(center geom.Point, half, rotation float64) Polygon {
	corners := [4]geom.Point{
		geom.Pt(-half, -half), geom.Pt(half, -half),
		geom.Pt(half, half), geom.Pt(-half, half),
	}
	sin, cos := math.Sincos(rotation)
	pts := make([]geom.Point, 4)
	for i, c := range corners {
		pts[i] = geom.Pt(center.X+c.X*cos-c.Y*sin, center.Y+c.X*sin+c.Y*cos)
	}
	return Polygon{Points: pts}
}

// SquareFromDrag builds the rotating square for a drag from center to p:
// the drag length is the half side and its angle the rotation.
func SquareFromDrag(center, p geom.Point) (Polygon, float64) {
	half := p.Sub(center).Length()
	return RotatedSquare(center, half, dragAngle(center, p)), half
}
