package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"dailyshapes/internal/input"
	"dailyshapes/internal/mechanic"
	"dailyshapes/internal/shapes"
)

const squareDoc = `{"type": "Polygon", "coordinates": [[[0,0],[100,0],[100,100],[0,100],[0,0]]]}`

func testLibrary(t *testing.T) *shapes.Library {
	t.Helper()
	lib, err := shapes.Load(fstest.MapFS{
		"a.geojson": {Data: []byte(squareDoc)},
		"b.geojson": {Data: []byte(squareDoc)},
		"c.geojson": {Data: []byte(squareDoc)},
		"d.geojson": {Data: []byte(squareDoc)},
	})
	if err != nil {
		t.Fatalf("load library: %v", err)
	}
	return lib
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testLibrary(t), Options{
		Rules: Rules{ShapesPerDay: 3, AttemptsPerShape: 2},
		Session: mechanic.Options{
			Width:         380,
			Height:        380,
			Padding:       20,
			GridCells:     14,
			SubtractHoles: true,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func useVariant(g *Game, v mechanic.Variant) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Variant = v
	_ = g.loadShapeLocked()
}

func mouse(typ string, x, y float64) input.PointerEvent {
	return input.PointerEvent{Type: typ, ClientX: x, ClientY: y}
}

// halve cuts the fitted square exactly in half with a vertical line.
func halve(t *testing.T, g *Game) mechanic.Reply {
	t.Helper()
	now := time.Now()
	var reply mechanic.Reply
	for _, ev := range []input.PointerEvent{
		mouse(input.MouseDown, 190, 5),
		mouse(input.MouseMove, 190, 200),
		mouse(input.MouseUp, 190, 375),
	} {
		var err error
		reply, err = g.HandleGesture(ev, input.Rect{}, now)
		if err != nil {
			t.Fatalf("HandleGesture(%s): %v", ev.Type, err)
		}
	}
	return reply
}

func TestGame_AcceptedCutMovesToResult(t *testing.T) {
	s := testStore(t)
	g, err := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	useVariant(g, mechanic.VerticalOnly)

	reply := halve(t, g)
	if reply.Outcome == nil {
		t.Fatal("expected an outcome")
	}
	if !reply.Outcome.Perfect || reply.Outcome.Score != 100 {
		t.Errorf("outcome %+v, want a perfect 100", *reply.Outcome)
	}
	if reply.Message != "PERFECT CUT!!!" {
		t.Errorf("message %q, want PERFECT CUT!!!", reply.Message)
	}

	snap := g.Snapshot(time.Now())
	if snap.Phase != mechanic.PhaseResult {
		t.Errorf("phase %q, want %q", snap.Phase, mechanic.PhaseResult)
	}
	if snap.Attempts != 1 || len(snap.Cuts) != 1 {
		t.Errorf("attempts %d cuts %d, want 1 and 1", snap.Attempts, len(snap.Cuts))
	}
	if snap.Perfects != 1 {
		t.Errorf("perfects %d, want 1", snap.Perfects)
	}
	if snap.Last == nil || snap.Last.LeftPercentage != 50 {
		t.Errorf("last outcome %+v, want 50%% left", snap.Last)
	}
}

func TestGame_GesturesBlockedUntilContinue(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)
	halve(t, g)

	reply, err := g.HandleGesture(mouse(input.MouseDown, 100, 5), input.Rect{}, time.Now())
	if err != nil {
		t.Fatalf("HandleGesture: %v", err)
	}
	if reply.Handled {
		t.Error("mousedown during the result phase should not be handled")
	}
	if reply.State != mechanic.StateIdle {
		t.Errorf("state %q, want idle", reply.State)
	}
	if n := len(g.Snapshot(time.Now()).Cuts); n != 1 {
		t.Errorf("cuts %d, want 1", n)
	}
}

func TestGame_ShortDragIsNotAnAttempt(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)
	v := g.Version()

	now := time.Now()
	if _, err := g.HandleGesture(mouse(input.MouseDown, 190, 100), input.Rect{}, now); err != nil {
		t.Fatal(err)
	}
	reply, err := g.HandleGesture(mouse(input.MouseUp, 190, 103), input.Rect{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Message != "Try again!" {
		t.Errorf("message %q, want Try again!", reply.Message)
	}
	snap := g.Snapshot(now)
	if snap.Attempts != 0 || snap.Phase != mechanic.PhaseCutting {
		t.Errorf("attempts %d phase %q, want 0 and cutting", snap.Attempts, snap.Phase)
	}
	if snap.Message != "Try again!" {
		t.Errorf("snapshot message %q, want Try again!", snap.Message)
	}
	if g.Version() == v {
		t.Error("version should change after a rejected cut")
	}
}

func TestGame_DailyFlow(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)

	if err := g.Continue(time.Now()); !errors.Is(err, ErrNoResult) {
		t.Errorf("Continue before a cut: got %v, want ErrNoResult", err)
	}

	for shape := 0; shape < 3; shape++ {
		for attempt := 1; attempt <= 2; attempt++ {
			snap := g.Snapshot(time.Now())
			if snap.ShapeIndex != shape {
				t.Fatalf("shape index %d, want %d", snap.ShapeIndex, shape)
			}
			halve(t, g)
			if got := g.Snapshot(time.Now()).Attempts; got != attempt {
				t.Errorf("attempts %d, want %d", got, attempt)
			}
			if err := g.Continue(time.Now()); err != nil {
				t.Fatalf("Continue: %v", err)
			}
		}
	}

	snap := g.Snapshot(time.Now())
	if snap.Status != StatusFinished || snap.Phase != mechanic.PhaseDone {
		t.Errorf("status %q phase %q, want finished and done", snap.Status, snap.Phase)
	}
	if len(snap.Cuts) != 6 {
		t.Errorf("cuts %d, want 6", len(snap.Cuts))
	}
	if snap.DayAverage != 100 || snap.DayTotal != 600 {
		t.Errorf("average %v total %v, want 100 and 600", snap.DayAverage, snap.DayTotal)
	}
	if len(snap.ShapeScores) != 3 {
		t.Fatalf("shape scores %d, want 3", len(snap.ShapeScores))
	}
	for _, ss := range snap.ShapeScores {
		if len(ss.Scores) != 2 || ss.Average != 100 || !ss.Perfect {
			t.Errorf("shape %s: %+v", ss.Name, ss)
		}
	}

	if _, err := g.HandleGesture(mouse(input.MouseDown, 190, 5), input.Rect{}, time.Now()); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("gesture after finishing: got %v, want ErrNotPlaying", err)
	}
	if err := g.Continue(time.Now()); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Continue after finishing: got %v, want ErrNotPlaying", err)
	}
}

func TestGame_ScaledRect(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)

	// The canvas is shown at half size, 10px from the page edge.
	rect := input.Rect{Left: 10, Top: 10, Width: 190, Height: 190}
	now := time.Now()
	_, _ = g.HandleGesture(mouse(input.MouseDown, 105, 12), rect, now)
	reply, err := g.HandleGesture(mouse(input.MouseUp, 105, 195), rect, now)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Outcome == nil || reply.Outcome.LeftPercentage != 50 {
		t.Errorf("outcome %+v, want a 50/50 split", reply.Outcome)
	}
}

func TestGame_Expire(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, now)

	if g.Expire(now) {
		t.Fatal("a fresh game should not expire")
	}
	later := g.NextPuzzleAt().Add(time.Second)
	if !g.Expire(later) {
		t.Fatal("game should expire after midnight")
	}
	if got := g.Status(later); got != StatusExpired {
		t.Errorf("status %q, want %q", got, StatusExpired)
	}
	if _, err := g.HandleGesture(mouse(input.MouseDown, 190, 5), input.Rect{}, later); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("got %v, want ErrNotPlaying", err)
	}
	if g.Expire(later) {
		t.Error("Expire should report a change only once")
	}
}

func TestGame_Practice(t *testing.T) {
	s := testStore(t)
	v := mechanic.VerticalOnly
	g, err := s.CreateGame(mechanic.ModePractice, "p1", &v, time.Now())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if g.Variant != mechanic.VerticalOnly {
		t.Errorf("variant %v, want vertical-only", g.Variant)
	}

	for i := 0; i < 4; i++ {
		halve(t, g)
		if err := g.Continue(time.Now()); err != nil {
			t.Fatalf("Continue %d: %v", i, err)
		}
	}
	snap := g.Snapshot(time.Now())
	if snap.Status != StatusPlaying || snap.Shapes != 1 {
		t.Errorf("status %q shapes %d, want playing and 1", snap.Status, snap.Shapes)
	}
	if snap.MaxAttempts != 0 {
		t.Errorf("max attempts %d, want unlimited", snap.MaxAttempts)
	}

	if err := g.SetVariant(mechanic.CircleCut, time.Now()); err != nil {
		t.Fatalf("SetVariant: %v", err)
	}
	if err := g.Shuffle(time.Now()); err != nil {
		t.Fatalf("Shuffle: %v", err)
	}
	snap = g.Snapshot(time.Now())
	if snap.Variant != mechanic.CircleCut || snap.Phase != mechanic.PhaseCutting || snap.Attempts != 0 {
		t.Errorf("after shuffle: variant %v phase %q attempts %d", snap.Variant, snap.Phase, snap.Attempts)
	}
	if g.Expire(snap.NextPuzzleAt.Add(time.Hour)) {
		t.Error("practice games never expire")
	}
}

func TestGame_DailyCannotShuffle(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	if err := g.Shuffle(time.Now()); !errors.Is(err, ErrNotPractice) {
		t.Errorf("Shuffle: got %v, want ErrNotPractice", err)
	}
	if err := g.SetVariant(mechanic.CircleCut, time.Now()); !errors.Is(err, ErrNotPractice) {
		t.Errorf("SetVariant: got %v, want ErrNotPractice", err)
	}
}

func TestGame_FrameAndOwner(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	img := g.Frame()
	if img == nil {
		t.Fatal("Frame returned nil")
	}
	if b := img.Bounds(); b.Dx() != 380 || b.Dy() != 380 {
		t.Errorf("frame %v, want 380x380", b)
	}
	if !g.IsOwner("p1") || g.IsOwner("p2") || g.IsOwner("") {
		t.Error("IsOwner should only accept the creating player")
	}
}

func TestGame_RightClickKeepsResult(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)
	halve(t, g)
	before := g.Frame()

	for _, ev := range []input.PointerEvent{
		{Type: input.ContextMenu, ClientX: 100, ClientY: 100},
		{Type: input.MouseDown, ClientX: 100, ClientY: 100, Button: input.ButtonSecondary},
		{Type: input.TouchStart, Touches: []input.Touch{{}, {}}},
	} {
		if _, err := g.HandleGesture(ev, input.Rect{}, time.Now()); err != nil {
			t.Fatalf("HandleGesture(%s): %v", ev.Type, err)
		}
	}

	snap := g.Snapshot(time.Now())
	if snap.Last == nil {
		t.Fatal("cancel in the result phase erased the scored cut")
	}
	if snap.Phase != mechanic.PhaseResult || snap.Attempts != 1 {
		t.Errorf("phase %q attempts %d, want result and 1", snap.Phase, snap.Attempts)
	}
	if g.Frame() != before {
		t.Error("cancel in the result phase repainted the frame")
	}
}

func TestGame_ExpireKeepsResult(t *testing.T) {
	s := testStore(t)
	g, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, time.Now())
	useVariant(g, mechanic.VerticalOnly)
	halve(t, g)
	before := g.Frame()

	later := g.NextPuzzleAt().Add(time.Second)
	if !g.Expire(later) {
		t.Fatal("game should expire after midnight")
	}
	if g.Snapshot(later).Last == nil {
		t.Error("rollover erased the last cut")
	}
	if g.Frame() != before {
		t.Error("rollover repainted the frame")
	}
}

func TestGame_SpinningShapeRefreshesWhileIdle(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s := NewStore(testLibrary(t), Options{
		Session: mechanic.Options{
			Width:   380,
			Height:  380,
			Padding: 20,
			Clock:   func() time.Time { return now },
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	v := mechanic.RotatingShapeVector
	g, err := s.CreateGame(mechanic.ModePractice, "p1", &v, now)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if !g.Snapshot(now).Spinning {
		t.Fatal("rotating-shape game should report a spinning shape")
	}

	first := g.Frame()
	now = now.Add(time.Second)
	second := g.Frame()
	if first == second {
		t.Error("idle frame should follow the spin")
	}

	halve(t, g)
	result := g.Frame()
	now = now.Add(time.Second)
	if g.Frame() != result {
		t.Error("result frame should hold still")
	}
}

func TestStore_SundayMechanics(t *testing.T) {
	s := testStore(t)
	sunday := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	daily, _ := s.CreateGame(mechanic.ModeDaily, "p1", nil, sunday)
	if daily.Variant != mechanic.RotatingShapeVector {
		t.Errorf("daily Sunday variant %v, want rotating-shape", daily.Variant)
	}
	practice, _ := s.CreateGame(mechanic.ModePractice, "p1", nil, sunday)
	if practice.Variant != mechanic.StraightLine {
		t.Errorf("practice Sunday variant %v, want straight-line", practice.Variant)
	}
}
