// Package raster fills puzzle polygons into an off-screen pixel mask. Shape
// pixels carry a single sentinel colour so later passes can tell shape from
// background without looking at the geometry again.
package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"dailyshapes/internal/geom"
)

// ShapeFill is the sentinel colour of a shape pixel.
var ShapeFill = color.RGBA{R: 221, G: 221, B: 221, A: 255}

// DefaultThreshold is the minimum coverage (out of 255) for a pixel to
// count as shape. Half coverage means the pixel centre is inside.
const DefaultThreshold = 128

// Raster is an immutable shape mask in canvas pixels.
type Raster struct {
	width  int
	height int
	shape  []bool
	count  int
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.height }

// Count returns the number of shape pixels.
func (r *Raster) Count() int { return r.count }

// IsShapeIndex reports whether the pixel at a row-major index is shape.
func (r *Raster) IsShapeIndex(i int) bool {
	return r.shape[i]
}

// Equal reports whether both rasters have the same size and mask.
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.width != other.width || r.height != other.height || r.count != other.count {
		return false
	}
	for i, v := range r.shape {
		if other.shape[i] != v {
			return false
		}
	}
	return true
}

func newRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		shape:  make([]bool, width*height),
	}
}

// Rasterizer fills polygon sets into Rasters. Internal buffers are reused
// between calls. A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// Threshold is the minimum coverage (0-255) for a shape pixel.
	Threshold uint8

	// SubtractHoles carves polygon holes out of the mask.
	SubtractHoles bool

	width  int
	height int
	v      *vector.Rasterizer
	cov    *image.Alpha
	poly   []bool
}

// NewRasterizer creates a Rasterizer for a width×height canvas.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		Threshold:     DefaultThreshold,
		SubtractHoles: true,
		width:         width,
		height:        height,
		v:             vector.NewRasterizer(width, height),
		cov:           image.NewAlpha(image.Rect(0, 0, width, height)),
		poly:          make([]bool, width*height),
	}
}

// Rasterize fills polys, mapped through t, into a new Raster. The same
// transform must be used for the visible rendering, otherwise the counted
// areas will not match what the player sees.
func (r *Rasterizer) Rasterize(polys []geom.Polygon, t geom.Transform) *Raster {
	out := newRaster(r.width, r.height)
	for _, poly := range polys {
		if len(poly.OuterRing) < 3 {
			continue
		}
		r.cover(t.ApplyRing(poly.OuterRing))
		for i, a := range r.cov.Pix {
			r.poly[i] = a >= r.Threshold
		}
		if r.SubtractHoles {
			for _, hole := range poly.Holes {
				if len(hole) < 3 {
					continue
				}
				r.cover(t.ApplyRing(hole))
				for i, a := range r.cov.Pix {
					if a >= r.Threshold {
						r.poly[i] = false
					}
				}
			}
		}
		for i, in := range r.poly {
			if in && !out.shape[i] {
				out.shape[i] = true
				out.count++
			}
		}
	}
	return out
}

// cover leaves the coverage of one closed ring in r.cov.
func (r *Rasterizer) cover(ring []geom.Point) {
	clear(r.cov.Pix)
	r.v.Reset(r.width, r.height)
	r.v.MoveTo(float32(ring[0].X), float32(ring[0].Y))
	for _, p := range ring[1:] {
		r.v.LineTo(float32(p.X), float32(p.Y))
	}
	r.v.ClosePath()
	r.v.Draw(r.cov, r.cov.Bounds(), image.Opaque, image.Point{})
}

// Rasterize is a one-shot helper around NewRasterizer.
func Rasterize(polys []geom.Polygon, width, height int, t geom.Transform) *Raster {
	return NewRasterizer(width, height).Rasterize(polys, t)
}
