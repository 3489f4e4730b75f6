package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, size float64) Polygon {
	return Polygon{OuterRing: []Point{
		Pt(x0, y0), Pt(x0+size, y0), Pt(x0+size, y0+size), Pt(x0, y0+size),
	}}
}

func TestCalculateBounds(t *testing.T) {
	polys := []Polygon{
		square(10, 20, 30),
		{
			OuterRing: []Point{Pt(-5, 0), Pt(0, 100), Pt(5, 0)},
			Holes:     [][]Point{{Pt(-500, -500), Pt(500, 500), Pt(0, 0)}},
		},
	}
	b, ok := CalculateBounds(polys)
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: -5, MinY: 0, MaxX: 40, MaxY: 100}, b, "holes must not widen the box")
}

func TestCalculateBounds_Empty(t *testing.T) {
	_, ok := CalculateBounds(nil)
	assert.False(t, ok)
	_, ok = CalculateBounds([]Polygon{{}})
	assert.False(t, ok)
}

func TestFitTransform_NeverUpscales(t *testing.T) {
	tr := FitTransform(Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}, 380, 380, 20)
	assert.Equal(t, 1.0, tr.Scale)
	center := tr.Apply(Pt(50, 25))
	assert.InDelta(t, 190, center.X, 1e-9)
	assert.InDelta(t, 190, center.Y, 1e-9)
}

func TestFitTransform_ShrinksAndStaysInside(t *testing.T) {
	b := Bounds{MinX: 1000, MinY: -400, MaxX: 1800, MaxY: 0}
	tr := FitTransform(b, 380, 380, 20)
	assert.InDelta(t, 340.0/800.0, tr.Scale, 1e-12)

	for _, p := range []Point{Pt(1000, -400), Pt(1800, 0), Pt(1000, 0), Pt(1800, -400)} {
		c := tr.Apply(p)
		assert.GreaterOrEqual(t, c.X, 0.0)
		assert.LessOrEqual(t, c.X, 380.0)
		assert.GreaterOrEqual(t, c.Y, 0.0)
		assert.LessOrEqual(t, c.Y, 380.0)
	}
	mid := tr.Apply(b.Center())
	assert.InDelta(t, 190, mid.X, 1e-9)
	assert.InDelta(t, 190, mid.Y, 1e-9)
}

func TestTransform_InvertRoundTrip(t *testing.T) {
	tr := Transform{Scale: 0.5, Offset: Pt(12, -7)}
	p := Pt(33.5, 81)
	back := tr.Invert(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-12)
	assert.InDelta(t, p.Y, back.Y, 1e-12)
}

func TestClonePolygons_IsDeep(t *testing.T) {
	orig := []Polygon{{
		OuterRing: []Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)},
		Holes:     [][]Point{{Pt(0.1, 0.1), Pt(0.2, 0.1), Pt(0.1, 0.2)}},
	}}
	cp := ClonePolygons(orig)
	cp[0].OuterRing[0] = Pt(9, 9)
	cp[0].Holes[0][0] = Pt(9, 9)
	assert.Equal(t, Pt(0, 0), orig[0].OuterRing[0])
	assert.Equal(t, Pt(0.1, 0.1), orig[0].Holes[0][0])
}

func TestRotate_QuarterTurn(t *testing.T) {
	p := Rotate(Pt(20, 10), Pt(10, 10), math.Pi/2)
	assert.InDelta(t, 10, p.X, 1e-12)
	assert.InDelta(t, 20, p.Y, 1e-12)
}

func TestRotatePolygons_CommutesWithTransform(t *testing.T) {
	tr := Transform{Scale: 0.5, Offset: Pt(40, 60)}
	centre := Pt(190, 190)
	polys := []Polygon{square(100, 100, 200)}
	polys[0].Holes = [][]Point{{Pt(150, 150), Pt(160, 150), Pt(150, 160)}}

	rotated := RotatePolygons(polys, tr.Invert(centre), 0.7)
	require.Len(t, rotated[0].Holes, 1)
	for i, p := range polys[0].OuterRing {
		want := Rotate(tr.Apply(p), centre, 0.7)
		got := tr.Apply(rotated[0].OuterRing[i])
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
	}
	assert.Equal(t, Pt(100, 100), polys[0].OuterRing[0], "input untouched")
}
