package cut

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyshapes/internal/geom"
)

func assertPoint(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y")
}

func TestExtendLine_Diagonal(t *testing.T) {
	l := ExtendLine(geom.Pt(100, 100), geom.Pt(200, 200), 380, 380)
	assertPoint(t, geom.Pt(0, 0), l.Start)
	assertPoint(t, geom.Pt(380, 380), l.End)
}

func TestExtendLine_DragDirectionDoesNotMatter(t *testing.T) {
	fwd := ExtendLine(geom.Pt(30, 200), geom.Pt(300, 120), 380, 380)
	back := ExtendLine(geom.Pt(300, 120), geom.Pt(30, 200), 380, 380)
	assert.Equal(t, fwd, back)
	assert.LessOrEqual(t, fwd.Start.X, fwd.End.X)

	p := geom.Pt(190, 300)
	assert.Equal(t, fwd.Classify(p), back.Classify(p))
}

func TestExtendLine_EndpointsOnBorder(t *testing.T) {
	l := ExtendLine(geom.Pt(30, 200), geom.Pt(300, 120), 380, 380)
	for _, p := range []geom.Point{l.Start, l.End} {
		onEdge := p.X == 0 || p.X == 380 || p.Y == 0 || p.Y == 380
		assert.True(t, onEdge, "%v is not on the border", p)
	}
	assertPoint(t, geom.Pt(0, 200+30*80.0/270.0), l.Start)
}

func TestExtendLine_AxisAligned(t *testing.T) {
	v := ExtendLine(geom.Pt(50, 10), geom.Pt(50, 100), 380, 380)
	assert.Equal(t, VerticalLine(50, 380), v)
	assert.Equal(t, geom.Pt(50, 0), v.Start)
	assert.Equal(t, geom.Pt(50, 380), v.End)

	h := ExtendLine(geom.Pt(300, 70), geom.Pt(10, 70), 380, 380)
	assert.Equal(t, HorizontalLine(70, 380), h)
}

func TestExtendLine_OutsideCanvasKeepsRawPoints(t *testing.T) {
	l := ExtendLine(geom.Pt(600, 10), geom.Pt(500, 0), 380, 380)
	assert.Equal(t, geom.Pt(500, 0), l.Start)
	assert.Equal(t, geom.Pt(600, 10), l.End)
}

func TestLine_Classify(t *testing.T) {
	l := Line{Start: geom.Pt(0, 100), End: geom.Pt(380, 100)}
	assert.Equal(t, SideA, l.Classify(geom.Pt(10, 99.5)))
	assert.Equal(t, SideB, l.Classify(geom.Pt(10, 100.5)))
	assert.Equal(t, OnBoundary, l.Classify(geom.Pt(200, 100)))
	assert.True(t, l.OnOutline(geom.Pt(200, 100)))
	assert.Equal(t, KindLine, l.Kind())
}

func TestProjectDiagonal(t *testing.T) {
	end, dist := ProjectDiagonal(geom.Pt(100, 100), geom.Pt(110, 100), Ascending)
	assertPoint(t, geom.Pt(105, 95), end)
	assert.InDelta(t, 5*math.Sqrt2, dist, 1e-9)

	end, _ = ProjectDiagonal(geom.Pt(100, 100), geom.Pt(110, 100), Descending)
	assertPoint(t, geom.Pt(105, 105), end)
}

func TestDiagonalLine(t *testing.T) {
	asc := DiagonalLine(geom.Pt(100, 100), Ascending, 380, 380)
	assertPoint(t, geom.Pt(0, 200), asc.Start)
	assertPoint(t, geom.Pt(200, 0), asc.End)

	desc := DiagonalLine(geom.Pt(100, 50), Descending, 380, 380)
	assertPoint(t, geom.Pt(50, 0), desc.Start)
	assertPoint(t, geom.Pt(380, 330), desc.End)
}

func TestEquilateralTriangle_Vertices(t *testing.T) {
	center := geom.Pt(190, 190)
	tri := EquilateralTriangle(center, 50, 0)
	require.Len(t, tri.Points, 3)

	for i, deg := range []float64{-90, 30, 150} {
		a := deg * math.Pi / 180
		want := geom.Pt(center.X+50*math.Cos(a), center.Y+50*math.Sin(a))
		assertPoint(t, want, tri.Points[i])
	}
	assertPoint(t, geom.Pt(190, 140), tri.Points[0])
	assertPoint(t, geom.Pt(190+25*math.Sqrt(3), 215), tri.Points[1])
	assertPoint(t, geom.Pt(190-25*math.Sqrt(3), 215), tri.Points[2])
}

func TestTriangleFromDrag(t *testing.T) {
	center := geom.Pt(190, 190)
	tri, radius := TriangleFromDrag(center, geom.Pt(190, 215))
	assert.InDelta(t, 50, radius, 1e-9)

	// the drag point is the midpoint of an edge
	mid := tri.Points[0].Add(tri.Points[1]).Mul(0.5)
	assertPoint(t, geom.Pt(190, 215), mid)
}

func TestPolygon_ClassifyTriangle(t *testing.T) {
	tri := EquilateralTriangle(geom.Pt(190, 190), 50, 0)
	assert.Equal(t, SideA, tri.Classify(geom.Pt(190, 190)))
	assert.Equal(t, SideA, tri.Classify(geom.Pt(190, 141)))
	assert.Equal(t, SideB, tri.Classify(geom.Pt(190, 139)))
	assert.Equal(t, SideB, tri.Classify(geom.Pt(235, 190)))
	assert.True(t, tri.OnOutline(geom.Pt(190, 215.5)))
	assert.False(t, tri.OnOutline(geom.Pt(190, 190)))
}

func TestPolygon_ClassifySquare(t *testing.T) {
	sq := RotatedSquare(geom.Pt(0, 0), 10, 0)
	assert.True(t, sq.Contains(geom.Pt(9, 9)))
	assert.True(t, sq.Contains(geom.Pt(-10, 0)))
	assert.False(t, sq.Contains(geom.Pt(11, 0)))

	diamond := RotatedSquare(geom.Pt(0, 0), 10, math.Pi/4)
	assert.True(t, diamond.Contains(geom.Pt(13, 0)))
	assert.False(t, diamond.Contains(geom.Pt(9, 9)))
}

func TestSquareFromDrag(t *testing.T) {
	sq, half := SquareFromDrag(geom.Pt(100, 100), geom.Pt(140, 100))
	assert.InDelta(t, 40, half, 1e-9)
	assertPoint(t, geom.Pt(60, 60), sq.Points[0])
	assertPoint(t, geom.Pt(140, 140), sq.Points[2])
}

func TestPolygon_Degenerate(t *testing.T) {
	assert.False(t, Polygon{}.Contains(geom.Pt(0, 0)))
	assert.False(t, PointInTriangle(geom.Pt(1, 1), geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 2)))
}

func TestCircle(t *testing.T) {
	c := CircleFromDrag(geom.Pt(0, 0), geom.Pt(6, 8))
	assert.InDelta(t, 10, c.Radius, 1e-9)
	assert.Equal(t, SideA, c.Classify(geom.Pt(10, 0)))
	assert.Equal(t, SideB, c.Classify(geom.Pt(10.1, 0)))
	assert.True(t, c.OnOutline(geom.Pt(9.5, 0)))
	assert.True(t, c.OnOutline(geom.Pt(0, -10.9)))
	assert.False(t, c.OnOutline(geom.Pt(5, 0)))
	assert.Equal(t, KindCircle, c.Kind())
}

func TestDistanceToSegment(t *testing.T) {
	a, b := geom.Pt(0, 0), geom.Pt(10, 0)
	assert.InDelta(t, 5, DistanceToSegment(geom.Pt(5, 5), a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(geom.Pt(13, 4), a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(geom.Pt(3, 4), a, a), 1e-9)
}
