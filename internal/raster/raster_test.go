package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dailyshapes/internal/geom"
)

func rect(x0, y0, x1, y1 float64) []geom.Point {
	return []geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1)}
}

// shapeAt treats out-of-range coordinates as background.
func shapeAt(r *Raster, x, y int) bool {
	if x < 0 || y < 0 || x >= r.Width() || y >= r.Height() {
		return false
	}
	return r.IsShapeIndex(y*r.Width() + x)
}

func TestRasterize_AlignedSquare(t *testing.T) {
	polys := []geom.Polygon{{OuterRing: rect(50, 50, 150, 150)}}
	r := Rasterize(polys, 380, 380, geom.Identity)

	assert.Equal(t, 100*100, r.Count())
	assert.True(t, shapeAt(r, 50, 50))
	assert.True(t, shapeAt(r, 149, 149))
	assert.False(t, shapeAt(r, 150, 100))
	assert.False(t, shapeAt(r, 49, 100))
	assert.False(t, shapeAt(r, -1, 0))
	assert.False(t, shapeAt(r, 380, 0))
}

func TestRasterize_AppliesTransform(t *testing.T) {
	polys := []geom.Polygon{{OuterRing: rect(0, 0, 10, 10)}}
	tr := geom.Transform{Scale: 2, Offset: geom.Pt(100, 200)}
	r := Rasterize(polys, 380, 380, tr)

	assert.Equal(t, 400, r.Count())
	assert.True(t, shapeAt(r, 100, 200))
	assert.True(t, shapeAt(r, 119, 219))
	assert.False(t, shapeAt(r, 120, 219))
}

func TestRasterize_Idempotent(t *testing.T) {
	polys := []geom.Polygon{
		{OuterRing: []geom.Point{geom.Pt(40, 300), geom.Pt(190, 37.5), geom.Pt(333.3, 290.1)}},
		{OuterRing: rect(10, 10, 60.5, 80.25)},
	}
	tr := geom.FitPolygons(polys, 380, 380, 20)

	rz := NewRasterizer(380, 380)
	a := rz.Rasterize(polys, tr)
	b := rz.Rasterize(polys, tr)
	c := Rasterize(polys, 380, 380, tr)

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.Positive(t, a.Count())
}

func TestRasterize_Holes(t *testing.T) {
	polys := []geom.Polygon{{
		OuterRing: rect(0, 0, 100, 100),
		Holes:     [][]geom.Point{rect(25, 25, 75, 75)},
	}}

	carved := Rasterize(polys, 100, 100, geom.Identity)
	assert.Equal(t, 100*100-50*50, carved.Count())
	assert.False(t, shapeAt(carved, 50, 50))

	rz := NewRasterizer(100, 100)
	rz.SubtractHoles = false
	filled := rz.Rasterize(polys, geom.Identity)
	assert.Equal(t, 100*100, filled.Count())
}

func TestRasterize_OverlappingPolygonsUnion(t *testing.T) {
	polys := []geom.Polygon{
		{OuterRing: rect(0, 0, 60, 10)},
		{OuterRing: rect(40, 0, 100, 10)},
	}
	r := Rasterize(polys, 100, 20, geom.Identity)
	assert.Equal(t, 1000, r.Count())
}

func TestRasterize_SkipsDegenerateRings(t *testing.T) {
	polys := []geom.Polygon{{OuterRing: []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5)}}}
	r := Rasterize(polys, 20, 20, geom.Identity)
	assert.Zero(t, r.Count())
}

func TestRaster_Equal(t *testing.T) {
	square := []geom.Polygon{{OuterRing: rect(3, 4, 17, 12)}}
	taller := []geom.Polygon{{OuterRing: rect(3, 4, 17, 13)}}
	a := Rasterize(square, 20, 20, geom.Identity)

	assert.True(t, a.Equal(Rasterize(square, 20, 20, geom.Identity)))
	assert.False(t, a.Equal(Rasterize(taller, 20, 20, geom.Identity)))
	assert.False(t, a.Equal(Rasterize(square, 21, 20, geom.Identity)))
	assert.False(t, a.Equal(nil))
}
