package split

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/raster"
)

func centredSquare() *raster.Raster {
	sq := geom.Polygon{OuterRing: []geom.Point{
		geom.Pt(50, 50), geom.Pt(150, 50), geom.Pt(150, 150), geom.Pt(50, 150),
	}}
	return raster.Rasterize([]geom.Polygon{sq}, 380, 380, geom.Identity)
}

func TestPartition_EvenSplit(t *testing.T) {
	r := centredSquare()
	line := cut.Line{Start: geom.Pt(0, 100), End: geom.Pt(380, 100)}

	res := Partition(r, line)
	require.Equal(t, 10000, res.TotalShapePixels)
	assert.InDelta(t, 50, res.LeftPercentage, 1e-9)
	assert.InDelta(t, 50, res.RightPercentage, 1e-9)
	assert.Equal(t, 5000, res.LeftArea)
	assert.Len(t, res.Left, 5000)
	assert.Len(t, res.Right, 5000)
	assert.NoError(t, Validate(res))
}

func TestPartition_MissIsInvalid(t *testing.T) {
	r := centredSquare()
	line := cut.Line{Start: geom.Pt(0, 10), End: geom.Pt(380, 10)}

	res := Partition(r, line)
	assert.Positive(t, res.TotalShapePixels)
	assert.Zero(t, res.LeftPercentage)
	assert.InDelta(t, 100, res.RightPercentage, 1e-9)

	err := Validate(res)
	assert.True(t, errors.Is(err, ErrDegenerateCut))
}

func TestPartition_SmallerSideFirst(t *testing.T) {
	r := centredSquare()
	lines := []cut.Line{
		{Start: geom.Pt(0, 70), End: geom.Pt(380, 70)},
		{Start: geom.Pt(380, 70), End: geom.Pt(0, 70)},
		{Start: geom.Pt(0, 130), End: geom.Pt(380, 130)},
		cut.ExtendLine(geom.Pt(60, 50), geom.Pt(140, 150), 380, 380),
		cut.VerticalLine(120, 380),
	}
	for _, l := range lines {
		res := Partition(r, l)
		assert.LessOrEqual(t, res.LeftPercentage, res.RightPercentage, "%+v", l)
		assert.InDelta(t, 100, res.LeftPercentage+res.RightPercentage, 0.5, "%+v", l)
		assert.Equal(t, res.LeftArea, len(res.Left))
	}

	top := Partition(r, lines[0])
	assert.InDelta(t, 20, top.LeftPercentage, 1e-9)
	assert.Equal(t, cut.SideA, top.LeftSide)

	bottom := Partition(r, lines[2])
	assert.InDelta(t, 20, bottom.LeftPercentage, 1e-9)
	assert.Equal(t, cut.SideB, bottom.LeftSide)
}

func TestPartition_Triangle(t *testing.T) {
	r := centredSquare()
	tri := cut.EquilateralTriangle(geom.Pt(100, 100), 30, 0)

	res := Partition(r, tri)
	require.Equal(t, 10000, res.TotalShapePixels)
	// equilateral triangle area is 3*sqrt(3)/4*R^2, about 1169 px here
	assert.InDelta(t, 11.69, res.LeftPercentage, 0.3)
	assert.Equal(t, cut.SideA, res.LeftSide)
	assert.NotEmpty(t, res.Boundary)
	assert.NoError(t, Validate(res))
}

func TestPartition_Circle(t *testing.T) {
	r := centredSquare()
	res := Partition(r, cut.Circle{Center: geom.Pt(100, 100), Radius: 40})
	// pi*40^2 = 5026.5 px inside
	assert.InDelta(t, 49.73, res.RightPercentage, 0.3)
	assert.Equal(t, cut.SideB, res.LeftSide)
}

func TestPartition_EmptyRaster(t *testing.T) {
	r := raster.Rasterize(nil, 380, 380, geom.Identity)
	res := Partition(r, cut.HorizontalLine(100, 380))
	assert.Zero(t, res.TotalShapePixels)
	assert.Zero(t, res.LeftPercentage)
	assert.Zero(t, res.RightPercentage)
	assert.ErrorIs(t, Validate(res), ErrDegenerateCut)
}
