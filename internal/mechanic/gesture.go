package mechanic

import (
	"fmt"
	"math"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/split"
)

// previewThreshold is how far a drag must go before a preview is drawn.
const previewThreshold = 5.0

// shaper is the per-variant part of a mechanic: how a drag from anchor to
// p becomes a primitive, and how large the drag is compared to min.
type shaper interface {
	shape(anchor, p geom.Point, width, height float64) (cut.Primitive, float64)
	min() float64
}

// gesture is the state machine shared by every variant.
type gesture struct {
	variant Variant
	shaper  shaper
	session *Session

	state  State
	anchor geom.Point
}

// New builds the mechanic for v on s.
func New(v Variant, s *Session) (CutMechanic, error) {
	sh, ok := shapers[v]
	if !ok {
		return nil, fmt.Errorf("unknown variant %d", int(v))
	}
	if v == RotatingShapeVector {
		s.startSpin()
	}
	return &gesture{variant: v, shaper: sh, session: s, state: StateIdle}, nil
}

// MustNew is New for variants known to exist.
func MustNew(v Variant, s *Session) CutMechanic {
	m, err := New(v, s)
	if err != nil {
		panic(err)
	}
	return m
}

var shapers = map[Variant]shaper{
	StraightLine:        freeLine{},
	HorizontalOnly:      axisLine{horizontal: true},
	VerticalOnly:        axisLine{},
	DiagonalAscending:   diagonal{dir: cut.Ascending},
	DiagonalDescending:  diagonal{dir: cut.Descending},
	CircleCut:           circle{},
	ThreePointTriangle:  triangle{},
	RotatingSquare:      square{},
	RotatingShapeVector: freeLine{},
}

func (g *gesture) Variant() Variant { return g.variant }
func (g *gesture) State() State     { return g.state }

func (g *gesture) HandleStart(p geom.Point) error {
	if g.state == StateDrawing {
		// a second press while drawing starts over
		g.Cancel()
	}
	if err := g.session.gate(); err != nil {
		return err
	}
	g.state = StateDrawing
	g.anchor = p
	return nil
}

func (g *gesture) HandleMove(p geom.Point) error {
	if g.state != StateDrawing {
		return ErrNotDrawing
	}
	g.session.tick()
	w, h := g.session.Size()
	prim, size := g.shaper.shape(g.anchor, p, float64(w), float64(h))
	if size > previewThreshold {
		g.session.preview(prim)
	} else {
		g.session.Clear()
	}
	return nil
}

func (g *gesture) HandleEnd(p geom.Point) (*Outcome, error) {
	if g.state != StateDrawing {
		return nil, ErrNotDrawing
	}
	anchor := g.anchor
	g.Reset()

	w, h := g.session.Size()
	prim, size := g.shaper.shape(anchor, p, float64(w), float64(h))
	if size < g.shaper.min() {
		err := fmt.Errorf("%w: %.1f < %.1f", split.ErrGestureTooShort, size, g.shaper.min())
		g.session.reject(err)
		return nil, err
	}
	// a spinning shape is cut where it is on release
	g.session.tick()
	return g.session.commit(g.variant, prim)
}

func (g *gesture) Cancel() {
	if g.state != StateDrawing {
		return
	}
	g.state = StateIdle
	g.session.Clear()
}

func (g *gesture) Reset() {
	g.state = StateIdle
	g.anchor = geom.Point{}
}

type freeLine struct{}

func (freeLine) shape(a, p geom.Point, w, h float64) (cut.Primitive, float64) {
	return cut.ExtendLine(a, p, w, h), p.Sub(a).Length()
}

func (freeLine) min() float64 { return cut.MinLineDrag }

type axisLine struct {
	horizontal bool
}

func (l axisLine) shape(a, p geom.Point, w, h float64) (cut.Primitive, float64) {
	if l.horizontal {
		return cut.HorizontalLine(a.Y, w), math.Abs(p.X - a.X)
	}
	return cut.VerticalLine(a.X, h), math.Abs(p.Y - a.Y)
}

func (axisLine) min() float64 { return cut.MinLineDrag }

type diagonal struct {
	dir cut.DiagonalDirection
}

func (d diagonal) shape(a, p geom.Point, w, h float64) (cut.Primitive, float64) {
	_, size := cut.ProjectDiagonal(a, p, d.dir)
	return cut.DiagonalLine(a, d.dir, w, h), size
}

func (diagonal) min() float64 { return cut.MinLineDrag }

type circle struct{}

func (circle) shape(a, p geom.Point, _, _ float64) (cut.Primitive, float64) {
	c := cut.CircleFromDrag(a, p)
	return c, c.Radius
}

func (circle) min() float64 { return cut.MinCircleRadius }

type triangle struct{}

func (triangle) shape(a, p geom.Point, _, _ float64) (cut.Primitive, float64) {
	return cut.TriangleFromDrag(a, p)
}

func (triangle) min() float64 { return cut.MinTriangleRadius }

type square struct{}

func (square) shape(a, p geom.Point, _, _ float64) (cut.Primitive, float64) {
	return cut.SquareFromDrag(a, p)
}

func (square) min() float64 { return cut.MinSquareHalf }
