package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dailyshapes/internal/game"
	"dailyshapes/internal/ids"
	"dailyshapes/internal/input"
	"dailyshapes/internal/mechanic"
	imgrender "dailyshapes/internal/render"
	"dailyshapes/internal/viewmodel"
	"dailyshapes/pkg/realtime"
	"dailyshapes/views/components"
	"dailyshapes/views/pages"
)

const (
	maxGestureBody = 16 * 1024
	requestTimeout = 15 * time.Second
)

type GameHandler struct {
	store   *game.Store
	origins []string
	log     *slog.Logger
}

func NewGameHandler(store *game.Store, origins []string, log *slog.Logger) *GameHandler {
	return &GameHandler{store: store, origins: origins, log: log}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		// long-lived connections stay outside the request timeout
		r.Get("/ws", h.socket)
		r.Get("/stream", h.stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/", h.gamePage)
			r.Get("/canvas.png", h.canvas)
			r.Post("/gesture", h.gesture)
			r.Post("/continue", h.continueTurn)
			r.Post("/shuffle", h.shuffle)
			r.Post("/variant", h.setVariant)
			r.Get("/turn", h.turnFragment)
			r.Get("/scores", h.scoresFragment)
		})
	})
}

// lookup resolves the {id} route parameter.
func (h *GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	gameID := chi.URLParam(r, "id")
	if err := ids.Validate(gameID, ids.PrefixGame); err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return instance, true
}

// owned is lookup plus a check that the caller created the game.
func (h *GameHandler) owned(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return nil, false
	}
	if !instance.IsOwner(playerIDFromCookie(r)) {
		http.Error(w, "not your game", http.StatusForbidden)
		return nil, false
	}
	return instance, true
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return
	}
	snapshot := instance.Snapshot(time.Now())
	data := viewmodel.GamePage{
		Title:        siteTitle,
		GameID:       instance.ID,
		IsOwner:      instance.IsOwner(playerIDFromCookie(r)),
		CanvasWidth:  snapshot.CanvasWidth,
		CanvasHeight: snapshot.CanvasHeight,
		Turn:         buildTurnFragment(snapshot),
		Scores:       buildScoresFragment(snapshot),
		Variants:     variantOptions(snapshot.Variant),
	}
	render(w, r, pages.GamePage(data))
}

func (h *GameHandler) canvas(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return
	}
	img := instance.Frame()
	if img == nil {
		http.Error(w, "canvas unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := imgrender.EncodePNG(w, img); err != nil {
		h.log.Error("encode canvas", "error", err, "game", instance.ID)
	}
}

// gestureRequest is one pointer event from the browser with the canvas's
// on-screen rect at the time of the event.
type gestureRequest struct {
	Event input.PointerEvent `json:"event"`
	Rect  input.Rect         `json:"rect"`
}

type gestureReply struct {
	mechanic.Reply
	Version int    `json:"version"`
	Phase   string `json:"phase"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func (h *GameHandler) gesture(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req gestureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGestureBody)).Decode(&req); err != nil {
		http.Error(w, "invalid gesture", http.StatusBadRequest)
		return
	}
	reply, status := h.applyGesture(instance, req)
	writeJSON(w, status, reply)
}

// applyGesture runs req against instance, publishes what changed and
// returns the reply with its HTTP status. The websocket path shares it.
func (h *GameHandler) applyGesture(instance *game.Game, req gestureRequest) (gestureReply, int) {
	now := time.Now()
	reply, err := instance.HandleGesture(req.Event, req.Rect, now)
	snapshot := instance.Snapshot(now)
	out := gestureReply{
		Reply:   reply,
		Version: snapshot.Version,
		Phase:   string(snapshot.Phase),
		Status:  snapshot.Status,
	}
	switch {
	case err == nil:
	case errors.Is(err, game.ErrNotPlaying):
		out.Error = err.Error()
		return out, http.StatusConflict
	default:
		h.log.Error("handle gesture", "error", err, "game", instance.ID, "type", req.Event.Type)
		out.Error = "could not process gesture"
		return out, http.StatusInternalServerError
	}

	switch {
	case reply.Outcome != nil:
		h.store.Publish(instance.ID, game.EventTurn, game.EventScores)
	case reply.Message != "":
		h.store.Publish(instance.ID, game.EventTurn)
	}
	return out, http.StatusOK
}

func (h *GameHandler) continueTurn(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.owned(w, r)
	if !ok {
		return
	}
	err := instance.Continue(time.Now())
	switch {
	case err == nil:
		h.store.Publish(instance.ID, game.EventTurn, game.EventScores)
	case errors.Is(err, game.ErrNoResult), errors.Is(err, game.ErrNotPlaying):
		if isAsync(r) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	default:
		h.log.Error("continue", "error", err, "game", instance.ID)
		http.Error(w, "could not continue", http.StatusInternalServerError)
		return
	}
	h.done(w, r, instance.ID)
}

func (h *GameHandler) shuffle(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := instance.Shuffle(time.Now()); err != nil {
		h.practiceError(w, err, instance.ID)
		return
	}
	h.store.Publish(instance.ID, game.EventTurn)
	h.done(w, r, instance.ID)
}

func (h *GameHandler) setVariant(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	v, err := mechanic.ParseVariant(r.FormValue("variant"))
	if err != nil {
		http.Error(w, "unknown mechanic", http.StatusBadRequest)
		return
	}
	if err := instance.SetVariant(v, time.Now()); err != nil {
		h.practiceError(w, err, instance.ID)
		return
	}
	h.store.Publish(instance.ID, game.EventTurn)
	h.done(w, r, instance.ID)
}

func (h *GameHandler) practiceError(w http.ResponseWriter, err error, gameID string) {
	if errors.Is(err, game.ErrNotPractice) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.log.Error("practice update", "error", err, "game", gameID)
	http.Error(w, "could not update game", http.StatusInternalServerError)
}

// done answers a form post: 204 for async requests, a redirect otherwise.
func (h *GameHandler) done(w http.ResponseWriter, r *http.Request, gameID string) {
	if isAsync(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/game/"+gameID+"/", http.StatusSeeOther)
}

func (h *GameHandler) turnFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, components.TurnFragment(buildTurnFragment(instance.Snapshot(time.Now()))))
}

func (h *GameHandler) scoresFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, components.ScoresFragment(buildScoresFragment(instance.Snapshot(time.Now()))))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub := h.store.Broadcaster(instance.ID)
	if hub == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// a fragment that fails to render is skipped, never sent half written
	sendFragment := func(event string, component templ.Component) {
		html, err := renderToString(r, component)
		if err != nil {
			if r.Context().Err() == nil {
				h.log.Error("render fragment", "error", err, "event", event, "game", instance.ID)
			}
			return
		}
		writeSSE(w, event, html)
	}
	sendSnapshot := func(includeTurn bool, includeScores bool) {
		snapshot := instance.Snapshot(time.Now())
		if includeTurn {
			sendFragment(game.EventTurn, components.TurnFragment(buildTurnFragment(snapshot)))
		}
		if includeScores {
			sendFragment(game.EventScores, components.ScoresFragment(buildScoresFragment(snapshot)))
		}
		flusher.Flush()
	}

	sendSnapshot(true, true)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			switch event {
			case game.EventTurn:
				sendSnapshot(true, false)
			case game.EventScores:
				sendSnapshot(false, true)
			case game.EventPuzzle:
				sendFragment(game.EventPuzzle, components.PuzzleNotice())
				flusher.Flush()
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func buildTurnFragment(s game.Snapshot) viewmodel.TurnFragment {
	attempt := s.Attempts
	if s.Phase == mechanic.PhaseCutting {
		attempt++
	}
	tf := viewmodel.TurnFragment{
		GameID:       s.ID,
		Mode:         string(s.Mode),
		Status:       s.Status,
		Phase:        string(s.Phase),
		VariantTitle: s.Variant.Title(),
		VariantHint:  s.Variant.Hint(),
		ShapeName:    s.ShapeName,
		ShapeNumber:  s.ShapeIndex + 1,
		TotalShapes:  s.Shapes,
		Attempt:      attempt,
		MaxAttempts:  s.MaxAttempts,
		Message:      s.Message,
		Version:      s.Version,
		NextPuzzleMs: s.NextPuzzleAt.UnixMilli(),
		Countdown:    realtime.FormatCountdown(s.Remaining),
	}
	if s.Last != nil {
		tf.HasResult = true
		tf.LeftPct = formatScore(s.Last.LeftPercentage)
		tf.RightPct = formatScore(s.Last.RightPercentage)
		tf.Score = formatScore(s.Last.Score)
		tf.Perfect = s.Last.Perfect
	}
	playing := s.Status == game.StatusPlaying
	tf.CanContinue = playing && s.Phase == mechanic.PhaseResult
	tf.ContinueText = continueLabel(s)
	tf.CanShuffle = playing && s.Mode == mechanic.ModePractice
	tf.Spinning = playing && s.Spinning && s.Phase == mechanic.PhaseCutting
	return tf
}

func continueLabel(s game.Snapshot) string {
	switch {
	case s.Mode == mechanic.ModePractice, s.Attempts < s.MaxAttempts:
		return "Try again"
	case s.ShapeIndex+1 >= s.Shapes:
		return "See results"
	default:
		return "Next shape"
	}
}

func buildScoresFragment(s game.Snapshot) viewmodel.ScoresFragment {
	out := viewmodel.ScoresFragment{
		GameID:     s.ID,
		Mode:       string(s.Mode),
		Status:     s.Status,
		DayAverage: formatScore(s.DayAverage),
		DayTotal:   formatScore(s.DayTotal),
		Cuts:       len(s.Cuts),
		Perfects:   s.Perfects,
	}
	for _, ss := range s.ShapeScores {
		if len(ss.Scores) == 0 {
			continue
		}
		entry := viewmodel.ScoreEntry{
			Name:    ss.Name,
			Number:  ss.Index + 1,
			Average: formatScore(ss.Average),
			Perfect: ss.Perfect,
		}
		for _, sc := range ss.Scores {
			entry.Scores = append(entry.Scores, formatScore(sc))
		}
		out.Shapes = append(out.Shapes, entry)
	}
	return out
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
