// Package geom holds the shape model shared by the cut engine: points,
// polygons with holes, bounding boxes and the shape-to-canvas transform.
package geom

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is a 2D point. Shape coordinates use a logical space, everything
// else in the engine uses canvas pixels.
type Point = vec.Vec2

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Polygon is an outer ring plus optional holes.
type Polygon struct {
	OuterRing []Point
	Holes     [][]Point
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	out := Polygon{OuterRing: append([]Point(nil), p.OuterRing...)}
	if len(p.Holes) > 0 {
		out.Holes = make([][]Point, len(p.Holes))
		for i, hole := range p.Holes {
			out.Holes[i] = append([]Point(nil), hole...)
		}
	}
	return out
}

// ClonePolygons deep-copies a polygon set.
func ClonePolygons(polys []Polygon) []Polygon {
	if polys == nil {
		return nil
	}
	out := make([]Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Clone()
	}
	return out
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns MaxX-MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Pt((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2)
}

// CalculateBounds returns the bounding box of every outer-ring point of
// every polygon. Holes lie inside their outer ring and are ignored.
// ok is false when the set contains no points.
func CalculateBounds(polys []Polygon) (b Bounds, ok bool) {
	b = Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, poly := range polys {
		for _, pt := range poly.OuterRing {
			b.MinX = min(b.MinX, pt.X)
			b.MinY = min(b.MinY, pt.Y)
			b.MaxX = max(b.MaxX, pt.X)
			b.MaxY = max(b.MaxY, pt.Y)
			ok = true
		}
	}
	if !ok {
		return Bounds{}, false
	}
	return b, true
}

// Rotate turns p by angle radians around pivot. With y pointing down a
// positive angle turns clockwise on screen.
func Rotate(p, pivot Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	d := p.Sub(pivot)
	return Pt(d.X*cos-d.Y*sin+pivot.X, d.X*sin+d.Y*cos+pivot.Y)
}

// RotatePolygons returns copies of polys turned by angle around pivot.
func RotatePolygons(polys []Polygon, pivot Point, angle float64) []Polygon {
	rotate := func(ring []Point) []Point {
		out := make([]Point, len(ring))
		for i, p := range ring {
			out[i] = Rotate(p, pivot, angle)
		}
		return out
	}
	out := make([]Polygon, len(polys))
	for i, poly := range polys {
		out[i].OuterRing = rotate(poly.OuterRing)
		for _, hole := range poly.Holes {
			out[i].Holes = append(out[i].Holes, rotate(hole))
		}
	}
	return out
}
