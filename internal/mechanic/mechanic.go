// Package mechanic turns pointer gestures into scored cuts. A CutMechanic
// runs the Idle -> Drawing -> Committed/Canceled state machine for one
// Variant against an explicit Session that owns the shapes and frame for
// one game.
package mechanic

import (
	"errors"
	"fmt"
	"time"

	"dailyshapes/internal/cut"
	"dailyshapes/internal/geom"
	"dailyshapes/internal/split"
)

var (
	// ErrNotDrawing is returned for move and end events without a start.
	ErrNotDrawing = errors.New("no gesture in progress")
	// ErrInteractionDisabled is returned when the turn controller is not
	// accepting cuts.
	ErrInteractionDisabled = errors.New("interaction disabled")
)

// State of a mechanic's gesture.
type State string

const (
	StateIdle    State = "idle"
	StateDrawing State = "drawing"
)

// Phase is the turn controller's phase. Gestures are only processed while
// cutting.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseCutting Phase = "cutting"
	PhaseResult  Phase = "result"
	PhaseDone    Phase = "done"
)

// Mode selects the game context a session belongs to.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// Outcome is what a committed cut hands to the turn controller. Rotation
// is how far a spinning shape had turned, in degrees, when the cut landed.
type Outcome struct {
	Variant         Variant       `json:"variant"`
	LeftPercentage  float64       `json:"leftPercentage"`
	RightPercentage float64       `json:"rightPercentage"`
	Score           float64       `json:"score"`
	Perfect         bool          `json:"perfect"`
	Commentary      string        `json:"commentary"`
	Rotation        float64       `json:"rotation,omitempty"`
	Primitive       cut.Primitive `json:"-"`
	Split           split.Result  `json:"-"`
}

// TurnController is the game flow a mechanic reports to.
type TurnController interface {
	InteractionEnabled() bool
	Phase() Phase
	// AttemptConsumed is called once per accepted cut.
	AttemptConsumed(o Outcome)
}

// Feedback receives transient UI hints.
type Feedback interface {
	TryAgain(reason error)
	PerfectCut(o Outcome)
}

// CutMechanic is one cutting strategy. Points are in canvas pixels.
type CutMechanic interface {
	Variant() Variant
	State() State
	HandleStart(p geom.Point) error
	HandleMove(p geom.Point) error
	// HandleEnd commits the gesture. A nil Outcome with a nil error never
	// happens: either the cut is scored or an error explains why not.
	HandleEnd(p geom.Point) (*Outcome, error)
	// Cancel drops an in-progress gesture without scoring. It does
	// nothing while Idle.
	Cancel()
	// Reset returns to Idle and forgets any preview.
	Reset()
}

// Variant names a mechanic.
type Variant int

const (
	StraightLine Variant = iota
	HorizontalOnly
	VerticalOnly
	DiagonalAscending
	DiagonalDescending
	CircleCut
	ThreePointTriangle
	RotatingSquare
	RotatingShapeVector
)

var variantNames = [...]string{
	StraightLine:        "straight-line",
	HorizontalOnly:      "horizontal-only",
	VerticalOnly:        "vertical-only",
	DiagonalAscending:   "diagonal-ascending",
	DiagonalDescending:  "diagonal-descending",
	CircleCut:           "circle-cut",
	ThreePointTriangle:  "three-point-triangle",
	RotatingSquare:      "rotating-square",
	RotatingShapeVector: "rotating-shape",
}

var variantTitles = [...]string{
	StraightLine:        "Straight Line",
	HorizontalOnly:      "Horizontal Only",
	VerticalOnly:        "Vertical Only",
	DiagonalAscending:   "Diagonal Ascending",
	DiagonalDescending:  "Diagonal Descending",
	CircleCut:           "Circle Cut",
	ThreePointTriangle:  "Triangle Cut",
	RotatingSquare:      "Rotating Square",
	RotatingShapeVector: "Rotating Shape",
}

var variantHints = [...]string{
	StraightLine:        "Drag a line across the shape.",
	HorizontalOnly:      "Drag sideways to make a horizontal cut.",
	VerticalOnly:        "Drag up or down to make a vertical cut.",
	DiagonalAscending:   "Drag to place a rising diagonal cut.",
	DiagonalDescending:  "Drag to place a falling diagonal cut.",
	CircleCut:           "Press at the centre and drag out the radius.",
	ThreePointTriangle:  "Press at the centre and drag to size and turn the triangle.",
	RotatingSquare:      "Press at the centre and drag to size and turn the square.",
	RotatingShapeVector: "The shape keeps turning. Drag a line and let go to cut where it is now.",
}

func (v Variant) valid() bool {
	return v >= 0 && int(v) < len(variantNames)
}

func (v Variant) String() string {
	if !v.valid() {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Title is the display name.
func (v Variant) Title() string {
	if !v.valid() {
		return v.String()
	}
	return variantTitles[v]
}

// Hint is the instruction shown before the first gesture.
func (v Variant) Hint() string {
	if !v.valid() {
		return ""
	}
	return variantHints[v]
}

// MarshalText encodes the variant by name.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.valid() {
		return nil, fmt.Errorf("unknown variant %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name.
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant looks a variant up by name.
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

// Variants lists every variant.
func Variants() []Variant {
	out := make([]Variant, len(variantNames))
	for i := range out {
		out[i] = Variant(i)
	}
	return out
}

var weekly = map[time.Weekday]Variant{
	time.Monday:    StraightLine,
	time.Tuesday:   HorizontalOnly,
	time.Wednesday: DiagonalAscending,
	time.Thursday:  CircleCut,
	time.Friday:    ThreePointTriangle,
	time.Saturday:  RotatingSquare,
	time.Sunday:    RotatingShapeVector,
}

// ForDay is the mechanic played on a weekday in mode. Practice plays the
// straight line on Sundays instead of the spinning shape.
func ForDay(mode Mode, d time.Weekday) Variant {
	if mode == ModePractice && d == time.Sunday {
		return StraightLine
	}
	return weekly[d]
}
