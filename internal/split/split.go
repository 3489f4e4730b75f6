// Package split partitions rasterized shape pixels by a cut and validates
// the resulting area split.
package split

import (
	"errors"
	"fmt"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/raster"
)

var (
	// ErrGestureTooShort means the drag never reached the commit threshold.
	ErrGestureTooShort = errors.New("gesture too short")
	// ErrDegenerateCut means the cut left one side (nearly) empty.
	ErrDegenerateCut = errors.New("cut does not divide the shape")
	// ErrNoShapes means a cut was attempted without any shape loaded.
	ErrNoShapes = errors.New("no shapes loaded")
	// ErrNoRenderTarget means there is nothing to draw the result on.
	ErrNoRenderTarget = errors.New("no render target")
)

// MinPercentage is the smallest share either side must hold for a cut to
// count.
const MinPercentage = 0.1

// Result is one cut's area split. LeftPercentage is never larger than
// RightPercentage: the smaller side is always reported first.
type Result struct {
	LeftPercentage   float64
	RightPercentage  float64
	LeftArea         int
	RightArea        int
	TotalShapePixels int

	// LeftSide is the geometric side reported as left.
	LeftSide cut.Side

	// Row-major pixel indices, kept for rendering.
	Left     []int
	Right    []int
	Boundary []int

	Width  int
	Height int
}

// Partition classifies every shape pixel of r against p. Pixels are sampled
// at their centres. Pixels exactly on the cut count towards neither side;
// pixels on the drawn outline are also collected into Boundary.
func Partition(r *raster.Raster, p cut.Primitive) Result {
	res := Result{Width: r.Width(), Height: r.Height()}
	var a, b []int
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			i := y*r.Width() + x
			if !r.IsShapeIndex(i) {
				continue
			}
			res.TotalShapePixels++
			pt := geom.Pt(float64(x)+0.5, float64(y)+0.5)
			switch p.Classify(pt) {
			case cut.SideA:
				a = append(a, i)
			case cut.SideB:
				b = append(b, i)
			}
			if p.OnOutline(pt) {
				res.Boundary = append(res.Boundary, i)
			}
		}
	}

	if res.TotalShapePixels == 0 {
		res.LeftSide = cut.SideA
		return res
	}

	total := float64(res.TotalShapePixels)
	pctA := float64(len(a)) / total * 100
	pctB := float64(len(b)) / total * 100
	if pctA <= pctB {
		res.LeftSide = cut.SideA
		res.Left, res.Right = a, b
		res.LeftPercentage, res.RightPercentage = pctA, pctB
	} else {
		res.LeftSide = cut.SideB
		res.Left, res.Right = b, a
		res.LeftPercentage, res.RightPercentage = pctB, pctA
	}
	res.LeftArea = len(res.Left)
	res.RightArea = len(res.Right)
	return res
}

// Validate rejects a split that does not really divide the shape.
func Validate(res Result) error {
	if res.TotalShapePixels == 0 {
		return fmt.Errorf("%w: no shape pixels", ErrDegenerateCut)
	}
	if res.LeftPercentage < MinPercentage || res.RightPercentage < MinPercentage {
		return fmt.Errorf("%w: %.2f%% / %.2f%%", ErrDegenerateCut, res.LeftPercentage, res.RightPercentage)
	}
	return nil
}
