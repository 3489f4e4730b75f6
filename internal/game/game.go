package game

import (
	"errors"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"dailyshapes/internal/input"
	"dailyshapes/internal/mechanic"
	"dailyshapes/internal/score"
	"dailyshapes/internal/shapes"
	"dailyshapes/pkg/realtime"
)

const (
	StatusPlaying  = "playing"
	StatusFinished = "finished"
	StatusExpired  = "expired"
)

var (
	ErrNotPlaying  = errors.New("game is not in progress")
	ErrNoResult    = errors.New("no cut result to continue from")
	ErrNotPractice = errors.New("only practice games can change shape")
)

// Rules are the per-game limits.
type Rules struct {
	ShapesPerDay     int
	AttemptsPerShape int
}

// CutRecord is one accepted cut.
type CutRecord struct {
	Shape      string
	ShapeIndex int
	Attempt    int
	Outcome    mechanic.Outcome
	At         time.Time
}

// Game is one player's run through a day's puzzle, or an open-ended
// practice session. It is the turn controller for its cutting session.
type Game struct {
	mu        sync.Mutex
	ID        string
	Mode      mechanic.Mode
	PlayerID  string
	CreatedAt time.Time
	Variant   mechanic.Variant
	Schedule  realtime.DailySchedule

	rules   Rules
	canvas  input.Canvas
	session mechanic.Options
	library *shapes.Library
	rng     *rand.Rand
	log     *slog.Logger

	shapes     []shapes.Shape
	shapeIndex int
	attempts   int
	phase      mechanic.Phase
	status     string
	cuts       []CutRecord
	message    string
	perfects   int
	version    int
	lastActive time.Time

	current *mechanic.Session
	mech    mechanic.CutMechanic
}

// turn adapts Game to mechanic.TurnController and mechanic.Feedback. Its
// methods only run from inside HandleGesture, with g.mu held.
type turn struct{ g *Game }

func (t turn) InteractionEnabled() bool {
	return t.g.status == StatusPlaying
}

func (t turn) Phase() mechanic.Phase { return t.g.phase }

func (t turn) AttemptConsumed(o mechanic.Outcome) {
	g := t.g
	g.attempts++
	g.cuts = append(g.cuts, CutRecord{
		Shape:      g.shapes[g.shapeIndex].Name,
		ShapeIndex: g.shapeIndex,
		Attempt:    g.attempts,
		Outcome:    o,
		At:         time.Now().UTC(),
	})
	g.phase = mechanic.PhaseResult
	g.message = o.Commentary
}

func (t turn) TryAgain(reason error) {
	t.g.message = "Try again!"
}

func (t turn) PerfectCut(o mechanic.Outcome) {
	t.g.perfects++
	t.g.log.Info("perfect cut", "shape", t.g.shapes[t.g.shapeIndex].Name, "left", o.LeftPercentage)
}

// loadShapeLocked builds a fresh session and mechanic for the current shape.
func (g *Game) loadShapeLocked() error {
	opts := g.session
	opts.Mode = g.Mode
	s := g.shapes[g.shapeIndex]
	g.current = mechanic.NewSession(s.Polygons, turn{g}, turn{g}, opts)
	m, err := mechanic.New(g.Variant, g.current)
	if err != nil {
		return err
	}
	g.mech = m
	g.attempts = 0
	g.phase = mechanic.PhaseCutting
	g.message = ""
	g.version++
	return nil
}

// HandleGesture feeds one pointer event to the active mechanic.
func (g *Game) HandleGesture(ev input.PointerEvent, rect input.Rect, now time.Time) (mechanic.Reply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked(now)
	g.lastActive = now
	if g.status != StatusPlaying {
		return mechanic.Reply{State: g.mech.State()}, ErrNotPlaying
	}
	before := g.mech.State()
	reply, err := mechanic.Handle(g.mech, ev, g.canvasRect(rect), &g.canvas)
	if reply.Handled || before != g.mech.State() || reply.Message != "" {
		g.version++
	}
	return reply, err
}

// canvasRect falls back to the canvas itself when the client did not send
// its on-screen rect, so coordinates are taken as canvas pixels.
func (g *Game) canvasRect(rect input.Rect) input.Rect {
	if rect.Width > 0 && rect.Height > 0 {
		return rect
	}
	return input.Rect{Width: float64(g.canvas.Width), Height: float64(g.canvas.Height)}
}

// Continue leaves the result phase: another attempt at the same shape, the
// next shape, or the end of the day.
func (g *Game) Continue(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked(now)
	g.lastActive = now
	if g.status != StatusPlaying {
		return ErrNotPlaying
	}
	if g.phase != mechanic.PhaseResult {
		return ErrNoResult
	}
	g.mech.Reset()
	if g.rules.AttemptsPerShape <= 0 || g.attempts < g.rules.AttemptsPerShape {
		g.current.Clear()
		g.phase = mechanic.PhaseCutting
		g.message = ""
		g.version++
		return nil
	}
	if g.shapeIndex+1 >= len(g.shapes) {
		g.phase = mechanic.PhaseDone
		g.status = StatusFinished
		g.message = "Come back tomorrow for new shapes!"
		g.version++
		g.log.Info("day finished", "game", g.ID, "average", g.dayAverageLocked())
		return nil
	}
	g.shapeIndex++
	return g.loadShapeLocked()
}

// Shuffle swaps a practice game onto a new random shape.
func (g *Game) Shuffle(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Mode != mechanic.ModePractice {
		return ErrNotPractice
	}
	g.lastActive = now
	g.mech.Reset()
	g.shapes[0] = g.library.Practice(g.rng)
	return g.loadShapeLocked()
}

// SetVariant changes a practice game's mechanic and restarts the shape.
func (g *Game) SetVariant(v mechanic.Variant, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Mode != mechanic.ModePractice {
		return ErrNotPractice
	}
	g.lastActive = now
	g.mech.Reset()
	g.Variant = v
	return g.loadShapeLocked()
}

// Expire ends a daily game whose day is over. It reports whether the game
// changed.
func (g *Game) Expire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expireLocked(now)
}

func (g *Game) expireLocked(now time.Time) bool {
	if g.Mode != mechanic.ModeDaily || g.status != StatusPlaying {
		return false
	}
	if !g.Schedule.Expired(now) {
		return false
	}
	g.status = StatusExpired
	g.phase = mechanic.PhaseDone
	g.message = "A new puzzle is ready!"
	if g.mech != nil {
		g.mech.Cancel()
	}
	g.version++
	return true
}

// Status is the game's status after applying any expiry at now.
func (g *Game) Status(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked(now)
	return g.status
}

// NextPuzzleAt is when the next daily puzzle starts.
func (g *Game) NextPuzzleAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Schedule.Next()
}

// Frame is the current canvas image. Frames are never mutated once
// produced, so the caller may encode it without the lock. A spinning shape
// is repainted at its current angle while the player has not started a
// cut.
func (g *Game) Frame() image.Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == StatusPlaying && g.phase == mechanic.PhaseCutting && g.mech.State() == mechanic.StateIdle {
		g.current.Refresh()
	}
	return g.current.Frame()
}

// Version changes whenever the canvas or turn state changes.
func (g *Game) Version() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

// LastActive is the time of the last player action.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// IsOwner reports whether the given player ID owns the game.
func (g *Game) IsOwner(playerID string) bool {
	return playerID != "" && playerID == g.PlayerID
}

func (g *Game) dayAverageLocked() float64 {
	scores := make([]float64, 0, len(g.cuts))
	for _, c := range g.cuts {
		scores = append(scores, c.Outcome.Score)
	}
	return score.Average(scores)
}

// ShapeScore summarises the cuts made on one shape.
type ShapeScore struct {
	Name    string
	Index   int
	Scores  []float64
	Average float64
	Perfect bool
}

// Snapshot captures the state needed for rendering UI fragments.
type Snapshot struct {
	ID           string
	Mode         mechanic.Mode
	Status       string
	Phase        mechanic.Phase
	Variant      mechanic.Variant
	Spinning     bool
	DayKey       string
	ShapeName    string
	ShapeIndex   int
	Shapes       int
	Attempts     int
	MaxAttempts  int
	Last         *mechanic.Outcome
	Message      string
	Cuts         []CutRecord
	ShapeScores  []ShapeScore
	DayAverage   float64
	DayTotal     float64
	Perfects     int
	NextPuzzleAt time.Time
	Remaining    time.Duration
	Version      int
	CanvasWidth  int
	CanvasHeight int
}

// Snapshot returns a consistent view of the current game state.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked(now)

	scores := make([]float64, 0, len(g.cuts))
	for _, c := range g.cuts {
		scores = append(scores, c.Outcome.Score)
	}
	var last *mechanic.Outcome
	if o := g.current.LastOutcome(); o != nil {
		cp := *o
		last = &cp
	}
	return Snapshot{
		ID:           g.ID,
		Mode:         g.Mode,
		Status:       g.status,
		Phase:        g.phase,
		Variant:      g.Variant,
		Spinning:     g.current.Spinning(),
		DayKey:       g.Schedule.Key(),
		ShapeName:    g.shapes[g.shapeIndex].Name,
		ShapeIndex:   g.shapeIndex,
		Shapes:       len(g.shapes),
		Attempts:     g.attempts,
		MaxAttempts:  g.rules.AttemptsPerShape,
		Last:         last,
		Message:      g.message,
		Cuts:         append([]CutRecord(nil), g.cuts...),
		ShapeScores:  g.shapeScoresLocked(),
		DayAverage:   score.Average(scores),
		DayTotal:     score.DayTotal(scores),
		Perfects:     g.perfects,
		NextPuzzleAt: g.Schedule.Next(),
		Remaining:    g.Schedule.Remaining(now),
		Version:      g.version,
		CanvasWidth:  g.canvas.Width,
		CanvasHeight: g.canvas.Height,
	}
}

func (g *Game) shapeScoresLocked() []ShapeScore {
	out := make([]ShapeScore, 0, len(g.shapes))
	for i, s := range g.shapes {
		entry := ShapeScore{Name: s.Name, Index: i}
		for _, c := range g.cuts {
			if c.ShapeIndex != i || c.Shape != s.Name {
				continue
			}
			entry.Scores = append(entry.Scores, c.Outcome.Score)
			entry.Perfect = entry.Perfect || c.Outcome.Perfect
		}
		if len(entry.Scores) == 0 && i > g.shapeIndex {
			continue
		}
		entry.Average = score.Average(entry.Scores)
		out = append(out, entry)
	}
	return out
}
