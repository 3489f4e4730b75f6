package geom

// Transform maps logical shape coordinates to canvas pixels:
// canvas = shape*Scale + Offset.
type Transform struct {
	Scale  float64
	Offset Point
}

// Identity leaves coordinates unchanged.
var Identity = Transform{Scale: 1}

// FitTransform centres b inside a width×height canvas after removing
// padding from every side. The scale never exceeds 1, so shapes are
// shrunk to fit but never blown up.
func FitTransform(b Bounds, width, height int, padding float64) Transform {
	availW := float64(width) - 2*padding
	availH := float64(height) - 2*padding
	scale := 1.0
	if w := b.Width(); w > 0 {
		scale = min(scale, availW/w)
	}
	if h := b.Height(); h > 0 {
		scale = min(scale, availH/h)
	}
	if scale <= 0 {
		scale = 1
	}
	return Transform{
		Scale: scale,
		Offset: Pt(
			(float64(width)-b.Width()*scale)/2-b.MinX*scale,
			(float64(height)-b.Height()*scale)/2-b.MinY*scale,
		),
	}
}

// FitPolygons is FitTransform over the bounds of polys. An empty set
// yields Identity.
func FitPolygons(polys []Polygon, width, height int, padding float64) Transform {
	b, ok := CalculateBounds(polys)
	if !ok {
		return Identity
	}
	return FitTransform(b, width, height, padding)
}

// Apply maps a shape point to canvas pixels.
func (t Transform) Apply(p Point) Point {
	return p.Mul(t.Scale).Add(t.Offset)
}

// Invert maps a canvas point back to shape coordinates.
func (t Transform) Invert(p Point) Point {
	if t.Scale == 0 {
		return p
	}
	return p.Sub(t.Offset).Mul(1 / t.Scale)
}

// ApplyRing maps every point of ring.
func (t Transform) ApplyRing(ring []Point) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		out[i] = t.Apply(p)
	}
	return out
}
