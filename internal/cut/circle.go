package cut

import "dailyshapes/internal/geom"

// MinCircleRadius is the smallest circle radius that commits.
const MinCircleRadius = 5.0

// Circle cuts out a disc. Inside points, including the rim, are SideA.
type Circle struct {
	Center geom.Point
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) Classify(p geom.Point) Side {
	if c.distSq(p) <= c.Radius*c.Radius {
		return SideA
	}
	return SideB
}

// OnOutline reports whether p lies within one pixel of the rim.
func (c Circle) OnOutline(p geom.Point) bool {
	d := c.distSq(p)
	inner := max(0, c.Radius-OutlineTolerance)
	outer := c.Radius + OutlineTolerance
	return d >= inner*inner && d <= outer*outer
}

func (c Circle) distSq(p geom.Point) float64 {
	dx := p.X - c.Center.X
	dy := p.Y - c.Center.Y
	return dx*dx + dy*dy
}

// CircleFromDrag centres the circle on the press point with the drag
// length as radius.
func CircleFromDrag(center, p geom.Point) Circle {
	return Circle{Center: center, Radius: p.Sub(center).Length()}
}
