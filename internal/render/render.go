// Package render paints canvas frames: the clean shape, the live cut
// preview and the coloured cut result.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/gogpu/gg"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/raster"
	"dailyshapes/internal/split"
)

// Highlight colours for the smaller side of a cut.
var (
	DailyHighlight    = color.RGBA{R: 100, G: 150, B: 255, A: 255}
	PracticeHighlight = color.RGBA{R: 250, G: 176, B: 106, A: 255}
)

// Palette holds every colour a frame uses.
type Palette struct {
	Background color.RGBA
	Shape      color.RGBA
	Boundary   color.RGBA
	Highlight  color.RGBA
	Grid       color.RGBA
	Outline    color.RGBA
}

// DefaultPalette is the standard look with the given highlight.
func DefaultPalette(highlight color.RGBA) Palette {
	return Palette{
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Shape:      raster.ShapeFill,
		Boundary:   color.RGBA{A: 255},
		Highlight:  highlight,
		Grid:       color.RGBA{R: 208, G: 208, B: 208, A: 255},
		Outline:    color.RGBA{A: 255},
	}
}

// Stroke widths in canvas pixels.
const (
	GridLineWidth    = 0.5
	OutlineWidth     = 2.0
	PreviewWidth     = 2.0
	FinalStrokeWidth = 3.0
	PreviewDash      = 5.0
)

// Scene is what a frame is drawn from: the shapes for this turn, their
// canvas transform and the mask rasterized with that same transform.
type Scene struct {
	Polygons  []geom.Polygon
	Transform geom.Transform
	Mask      *raster.Raster
}

// Renderer draws frames.
type Renderer struct {
	Palette Palette
	// GridCells is the number of grid cells per side.
	GridCells int
}

// New creates a Renderer. gridCells <= 0 disables the grid.
func New(p Palette, gridCells int) *Renderer {
	return &Renderer{Palette: p, GridCells: gridCells}
}

// Classify is the pixel pass of a cut result. It reuses the index sets
// from res, so the highlighted side is always the one reported as smaller.
// Boundary pixels are black, the smaller side takes the highlight, the
// larger side keeps the shape fill and everything else is background.
func (r *Renderer) Classify(mask *raster.Raster, res split.Result) (*image.RGBA, error) {
	if mask == nil {
		return nil, split.ErrNoRenderTarget
	}
	if res.Width != mask.Width() || res.Height != mask.Height() {
		return nil, fmt.Errorf("%w: result is %dx%d, mask is %dx%d",
			split.ErrNoRenderTarget, res.Width, res.Height, mask.Width(), mask.Height())
	}
	img := r.shapePixels(mask)
	for _, i := range res.Left {
		setIndex(img, i, r.Palette.Highlight)
	}
	for _, i := range res.Boundary {
		setIndex(img, i, r.Palette.Boundary)
	}
	return img, nil
}

// Shape draws the clean frame for s.
func (r *Renderer) Shape(s Scene) (image.Image, error) {
	if s.Mask == nil {
		return nil, split.ErrNoRenderTarget
	}
	return r.finish(r.shapePixels(s.Mask), s, nil, false)
}

// Preview draws the clean frame with an in-progress cut dashed on top.
func (r *Renderer) Preview(s Scene, p cut.Primitive) (image.Image, error) {
	if s.Mask == nil {
		return nil, split.ErrNoRenderTarget
	}
	return r.finish(r.shapePixels(s.Mask), s, p, true)
}

// Result draws a committed cut: the pixel pass, then grid lines, shape
// outlines and the final cut stroke.
func (r *Renderer) Result(s Scene, res split.Result, p cut.Primitive) (image.Image, error) {
	img, err := r.Classify(s.Mask, res)
	if err != nil {
		return nil, err
	}
	return r.finish(img, s, p, false)
}

func (r *Renderer) shapePixels(mask *raster.Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, mask.Width(), mask.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Palette.Background), image.Point{}, draw.Src)
	for i := 0; i < mask.Width()*mask.Height(); i++ {
		if mask.IsShapeIndex(i) {
			setIndex(img, i, r.Palette.Shape)
		}
	}
	return img
}

func setIndex(img *image.RGBA, i int, c color.RGBA) {
	o := i * 4
	img.Pix[o+0] = c.R
	img.Pix[o+1] = c.G
	img.Pix[o+2] = c.B
	img.Pix[o+3] = c.A
}

// finish strokes the vector overlays on top of base.
func (r *Renderer) finish(base *image.RGBA, s Scene, p cut.Primitive, preview bool) (image.Image, error) {
	dc := gg.NewContextForImage(base)
	defer dc.Close()

	if err := r.drawGrid(dc, base.Bounds().Dx(), base.Bounds().Dy()); err != nil {
		return nil, fmt.Errorf("draw grid: %w", err)
	}
	if err := r.drawOutlines(dc, s); err != nil {
		return nil, fmt.Errorf("draw outlines: %w", err)
	}
	if p != nil {
		if preview {
			dc.SetLineWidth(PreviewWidth)
			dc.SetDash(PreviewDash, PreviewDash)
		} else {
			dc.SetLineWidth(FinalStrokeWidth)
		}
		dc.SetColor(r.Palette.Boundary)
		tracePrimitive(dc, p)
		err := dc.Stroke()
		dc.ClearDash()
		if err != nil {
			return nil, fmt.Errorf("draw cut: %w", err)
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) drawGrid(dc *gg.Context, width, height int) error {
	if r.GridCells <= 0 {
		return nil
	}
	dc.SetColor(r.Palette.Grid)
	dc.SetLineWidth(GridLineWidth)
	w, h := float64(width), float64(height)
	for i := 0; i <= r.GridCells; i++ {
		x := float64(i) * w / float64(r.GridCells)
		y := float64(i) * h / float64(r.GridCells)
		dc.DrawLine(x, 0, x, h)
		dc.DrawLine(0, y, w, y)
	}
	return dc.Stroke()
}

func (r *Renderer) drawOutlines(dc *gg.Context, s Scene) error {
	if len(s.Polygons) == 0 {
		return nil
	}
	dc.SetColor(r.Palette.Outline)
	dc.SetLineWidth(OutlineWidth)
	for _, poly := range s.Polygons {
		traceRing(dc, s.Transform.ApplyRing(poly.OuterRing))
		for _, hole := range poly.Holes {
			traceRing(dc, s.Transform.ApplyRing(hole))
		}
	}
	return dc.Stroke()
}

func traceRing(dc *gg.Context, ring []geom.Point) {
	if len(ring) < 2 {
		return
	}
	dc.MoveTo(ring[0].X, ring[0].Y)
	for _, pt := range ring[1:] {
		dc.LineTo(pt.X, pt.Y)
	}
	dc.ClosePath()
}

func tracePrimitive(dc *gg.Context, p cut.Primitive) {
	switch v := p.(type) {
	case cut.Line:
		dc.DrawLine(v.Start.X, v.Start.Y, v.End.X, v.End.Y)
	case cut.Polygon:
		traceRing(dc, v.Points)
	case cut.Circle:
		dc.DrawCircle(v.Center.X, v.Center.Y, v.Radius)
	}
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	return dc.EncodePNG(w)
}
