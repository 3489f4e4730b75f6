// Package input maps raw pointer and touch events from the browser onto the
// canvas's internal pixel grid.
package input

import (
	"strings"

	"dailyshapes/internal/geom"
)

// Pointer event types sent by the client.
const (
	MouseDown   = "mousedown"
	MouseMove   = "mousemove"
	MouseUp     = "mouseup"
	ContextMenu = "contextmenu"
	TouchStart  = "touchstart"
	TouchMove   = "touchmove"
	TouchEnd    = "touchend"
	TouchCancel = "touchcancel"
)

// ButtonSecondary is the DOM button index of the right mouse button.
const ButtonSecondary = 2

// Touch is one touch point.
type Touch struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// PointerEvent is the subset of a DOM MouseEvent/TouchEvent the engine needs.
type PointerEvent struct {
	Type           string  `json:"type"`
	ClientX        float64 `json:"clientX"`
	ClientY        float64 `json:"clientY"`
	Button         int     `json:"button"`
	Touches        []Touch `json:"touches,omitempty"`
	ChangedTouches []Touch `json:"changedTouches,omitempty"`
}

// Rect is the canvas's bounding rectangle on screen, in CSS pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Canvas is the canvas's internal pixel resolution.
type Canvas struct {
	Width  int
	Height int
}

// IsTouch reports whether e came from a touch screen.
func (e PointerEvent) IsTouch() bool {
	return strings.HasPrefix(e.Type, "touch")
}

// IsCancel reports whether e should abort an in-progress gesture: a right
// click on desktop or a second simultaneous finger on touch devices.
func (e PointerEvent) IsCancel() bool {
	if e.Type == ContextMenu {
		return true
	}
	if e.Type == MouseDown && e.Button == ButtonSecondary {
		return true
	}
	return e.IsTouch() && len(e.Touches) > 1
}

// ClientPoint returns the event's client coordinates. Touch events use the
// first active touch, falling back to the first changed touch, which is the
// only one left on touchend.
func (e PointerEvent) ClientPoint() (x, y float64) {
	if !e.IsTouch() {
		return e.ClientX, e.ClientY
	}
	if len(e.Touches) > 0 {
		return e.Touches[0].ClientX, e.Touches[0].ClientY
	}
	if len(e.ChangedTouches) > 0 {
		return e.ChangedTouches[0].ClientX, e.ChangedTouches[0].ClientY
	}
	return e.ClientX, e.ClientY
}

// Map converts e into canvas pixel coordinates, correcting for CSS scaling
// of the canvas element. When canvas is nil or rect has no size the
// coordinates are only made relative to the rect.
func Map(e PointerEvent, rect Rect, canvas *Canvas) geom.Point {
	cx, cy := e.ClientPoint()
	x := cx - rect.Left
	y := cy - rect.Top
	if canvas == nil || rect.Width <= 0 || rect.Height <= 0 {
		return geom.Pt(x, y)
	}
	return geom.Pt(
		x*float64(canvas.Width)/rect.Width,
		y*float64(canvas.Height)/rect.Height,
	)
}
