package mechanic

import (
	"errors"

	"dailyshapes/internal/input"
	"dailyshapes/internal/split"
)

// Reply is the answer to one pointer event.
type Reply struct {
	Handled bool     `json:"handled"`
	State   State    `json:"state"`
	Outcome *Outcome `json:"outcome,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Handle maps a raw browser event onto the canvas and routes it to m.
// Recoverable failures are folded into the Reply; only unexpected errors
// are returned.
func Handle(m CutMechanic, ev input.PointerEvent, rect input.Rect, canvas *input.Canvas) (Reply, error) {
	if ev.IsCancel() || ev.Type == input.TouchCancel {
		// a cancel outside a drag must not touch a scored result
		if m.State() != StateDrawing {
			return Reply{State: m.State()}, nil
		}
		m.Cancel()
		return Reply{Handled: true, State: m.State()}, nil
	}

	p := input.Map(ev, rect, canvas)
	var (
		out *Outcome
		err error
	)
	switch ev.Type {
	case input.MouseDown, input.TouchStart:
		err = m.HandleStart(p)
	case input.MouseMove, input.TouchMove:
		err = m.HandleMove(p)
	case input.MouseUp, input.TouchEnd:
		out, err = m.HandleEnd(p)
	default:
		return Reply{State: m.State()}, nil
	}

	reply := Reply{Handled: err == nil, State: m.State(), Outcome: out}
	switch {
	case err == nil:
		if out != nil {
			reply.Message = out.Commentary
		}
		return reply, nil
	case errors.Is(err, ErrNotDrawing), errors.Is(err, ErrInteractionDisabled):
		return reply, nil
	case errors.Is(err, split.ErrGestureTooShort), errors.Is(err, split.ErrDegenerateCut):
		reply.Message = "Try again!"
		return reply, nil
	default:
		return reply, err
	}
}
