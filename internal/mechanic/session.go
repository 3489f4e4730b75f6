package mechanic

import (
	"image"
	"log/slog"
	"math"
	"time"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/raster"
	"dailyshapes/internal/render"
	"dailyshapes/internal/score"
	"dailyshapes/internal/split"
)

// Options configure a Session.
type Options struct {
	Width         int
	Height        int
	Padding       float64
	GridCells     int
	SubtractHoles bool
	Mode          Mode
	Logger        *slog.Logger
	// Clock drives spinning shapes. Defaults to time.Now.
	Clock func() time.Time
}

// SpinPeriod is one full turn of a spinning shape.
const SpinPeriod = 12 * time.Second

// spin turns the shapes around the canvas centre at a steady rate.
type spin struct {
	start  time.Time
	centre geom.Point
	angle  float64
}

// Session is the cutting context for one shape turn of one game. It owns a
// private copy of the shapes, the transform and mask derived from them,
// the current primitive and the visible frame. A Session is not safe for
// concurrent use.
type Session struct {
	base      []geom.Polygon
	polygons  []geom.Polygon
	transform geom.Transform
	rz        *raster.Rasterizer
	mask      *raster.Raster
	spin      *spin
	clock     func() time.Time
	mode      Mode
	width     int
	height    int

	renderer  *render.Renderer
	primitive cut.Primitive
	frame     image.Image
	outcome   *Outcome

	turn     TurnController
	feedback Feedback
	log      *slog.Logger
}

// NewSession loads polys for a turn. The polygons are deep-copied, so the
// caller may reuse its slice.
func NewSession(polys []geom.Polygon, turn TurnController, feedback Feedback, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Mode == "" {
		opts.Mode = ModeDaily
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	highlight := render.DailyHighlight
	if opts.Mode == ModePractice {
		highlight = render.PracticeHighlight
	}

	polys = geom.ClonePolygons(polys)
	t := geom.FitPolygons(polys, opts.Width, opts.Height, opts.Padding)
	rz := raster.NewRasterizer(opts.Width, opts.Height)
	rz.SubtractHoles = opts.SubtractHoles

	s := &Session{
		base:      polys,
		polygons:  polys,
		transform: t,
		rz:        rz,
		mask:      rz.Rasterize(polys, t),
		clock:     opts.Clock,
		mode:      opts.Mode,
		width:     opts.Width,
		height:    opts.Height,
		renderer:  render.New(render.DefaultPalette(highlight), opts.GridCells),
		turn:      turn,
		feedback:  feedback,
		log:       opts.Logger.With("mode", string(opts.Mode)),
	}
	s.redraw()
	return s
}

// Mode is the game context of the session.
func (s *Session) Mode() Mode { return s.mode }

// Mask is the shape raster for this turn.
func (s *Session) Mask() *raster.Raster { return s.mask }

// HasShapes reports whether any shape is loaded.
func (s *Session) HasShapes() bool { return len(s.polygons) > 0 }

// Frame is the latest fully painted frame. It is nil only if painting the
// clean shape failed.
func (s *Session) Frame() image.Image { return s.frame }

// LastOutcome is the most recent accepted cut, cleared by Clear.
func (s *Session) LastOutcome() *Outcome { return s.outcome }

// Size is the canvas size in pixels.
func (s *Session) Size() (width, height int) { return s.width, s.height }

func (s *Session) scene() render.Scene {
	return render.Scene{Polygons: s.polygons, Transform: s.transform, Mask: s.mask}
}

// Clear drops the current primitive and result and repaints the clean
// shape.
func (s *Session) Clear() {
	s.primitive = nil
	s.outcome = nil
	s.tick()
	s.redraw()
}

// Spinning reports whether the shapes turn over time.
func (s *Session) Spinning() bool { return s.spin != nil }

// Refresh repaints a spinning shape at the current time while no cut is
// shown. It reports whether the frame changed.
func (s *Session) Refresh() bool {
	if s.spin == nil || s.primitive != nil || s.outcome != nil {
		return false
	}
	if !s.tick() {
		return false
	}
	s.redraw()
	return true
}

// startSpin sets the shapes turning from their loaded position.
func (s *Session) startSpin() {
	s.spin = &spin{
		start:  s.clock(),
		centre: geom.Pt(float64(s.width)/2, float64(s.height)/2),
	}
}

// tick moves spinning shapes to their rotation at the current time and
// re-rasterizes the mask. It reports whether anything moved.
func (s *Session) tick() bool {
	if s.spin == nil {
		return false
	}
	elapsed := s.clock().Sub(s.spin.start) % SpinPeriod
	if elapsed < 0 {
		elapsed += SpinPeriod
	}
	angle := 2 * math.Pi * float64(elapsed) / float64(SpinPeriod)
	if angle == s.spin.angle {
		return false
	}
	// rotating around the pivot in shape space is the same as rotating
	// around the canvas centre, since the transform is a uniform scale
	pivot := s.transform.Invert(s.spin.centre)
	s.polygons = geom.RotatePolygons(s.base, pivot, angle)
	s.mask = s.rz.Rasterize(s.polygons, s.transform)
	s.spin.angle = angle
	return true
}

// rotation is the current spin angle in degrees.
func (s *Session) rotation() float64 {
	if s.spin == nil {
		return 0
	}
	return s.spin.angle * 180 / math.Pi
}

func (s *Session) redraw() {
	img, err := s.renderer.Shape(s.scene())
	if err != nil {
		s.log.Error("paint shape", "error", err)
		return
	}
	s.frame = img
}

func (s *Session) preview(p cut.Primitive) {
	s.primitive = p
	img, err := s.renderer.Preview(s.scene(), p)
	if err != nil {
		s.log.Error("paint preview", "error", err)
		return
	}
	s.frame = img
}

// gate reports why a gesture may not start, or nil.
func (s *Session) gate() error {
	if s.turn != nil && (!s.turn.InteractionEnabled() || s.turn.Phase() != PhaseCutting) {
		return ErrInteractionDisabled
	}
	if !s.HasShapes() {
		s.log.Error("cut attempted without shapes", "error", split.ErrNoShapes)
		return split.ErrNoShapes
	}
	return nil
}

// reject resets the frame and tells the player to try again.
func (s *Session) reject(err error) {
	s.log.Debug("cut rejected", "error", err)
	s.Clear()
	if s.feedback != nil {
		s.feedback.TryAgain(err)
	}
}

// commit scores p. Nothing is reported to the turn controller unless the
// cut is valid.
func (s *Session) commit(v Variant, p cut.Primitive) (*Outcome, error) {
	res := split.Partition(s.mask, p)
	if err := split.Validate(res); err != nil {
		s.reject(err)
		return nil, err
	}

	sc := score.Cut(res.LeftPercentage)
	o := &Outcome{
		Variant:         v,
		LeftPercentage:  res.LeftPercentage,
		RightPercentage: res.RightPercentage,
		Score:           sc.Score,
		Perfect:         sc.Perfect,
		Commentary:      sc.Commentary,
		Rotation:        score.Round1(s.rotation()),
		Primitive:       p,
		Split:           res,
	}

	s.primitive = p
	s.outcome = o
	img, err := s.renderer.Result(s.scene(), res, p)
	if err != nil {
		s.log.Error("paint result", "error", err)
	} else {
		s.frame = img
	}

	s.log.Debug("cut accepted",
		"variant", v.String(),
		"left", res.LeftPercentage,
		"right", res.RightPercentage,
		"score", sc.Score,
	)
	if s.turn != nil {
		s.turn.AttemptConsumed(*o)
	}
	if o.Perfect && s.feedback != nil {
		s.feedback.PerfectCut(*o)
	}
	return o, nil
}
