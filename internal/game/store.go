package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"dailyshapes/internal/ids"
	"dailyshapes/internal/input"
	"dailyshapes/internal/mechanic"
	"dailyshapes/internal/shapes"
	"dailyshapes/pkg/realtime"
)

// Events published to a game's subscribers.
const (
	EventTurn   = "turn"
	EventScores = "scores"
	EventPuzzle = "puzzle"
)

var ErrNoShapesAvailable = errors.New("shape library is empty")

// Options configure every game a Store creates.
type Options struct {
	Rules    Rules
	Session  mechanic.Options
	Location *time.Location
	Logger   *slog.Logger
}

// Store holds games and delegates to realtime.RoomStore for storage and
// broadcast.
type Store struct {
	r       *realtime.RoomStore[*Game]
	library *shapes.Library
	opts    Options
	log     *slog.Logger
}

// NewStore creates an in-memory game store over lib.
func NewStore(lib *shapes.Library, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Rules.ShapesPerDay <= 0 {
		opts.Rules.ShapesPerDay = 3
	}
	if opts.Rules.AttemptsPerShape <= 0 {
		opts.Rules.AttemptsPerShape = 2
	}
	opts.Session.Logger = opts.Logger
	return &Store{
		r:       realtime.NewRoomStore[*Game](),
		library: lib,
		opts:    opts,
		log:     opts.Logger,
	}
}

// CreateGame starts a daily or practice game for playerID. Practice games
// use variant when it is non-nil and today's mechanic otherwise.
func (s *Store) CreateGame(mode mechanic.Mode, playerID string, variant *mechanic.Variant, now time.Time) (*Game, error) {
	if s.library == nil || s.library.Len() == 0 {
		return nil, ErrNoShapesAvailable
	}
	sched := s.Schedule(now)
	g := &Game{
		ID:         ids.NewGameID(),
		Mode:       mode,
		PlayerID:   playerID,
		CreatedAt:  now.UTC(),
		Variant:    mechanic.ForDay(mode, sched.Day.Weekday()),
		Schedule:   sched,
		canvas:     input.Canvas{Width: s.opts.Session.Width, Height: s.opts.Session.Height},
		session:    s.opts.Session,
		library:    s.library,
		status:     StatusPlaying,
		lastActive: now,
	}
	switch mode {
	case mechanic.ModeDaily:
		g.rules = s.opts.Rules
		g.shapes = s.library.ForDate(sched.Day, s.opts.Rules.ShapesPerDay)
	case mechanic.ModePractice:
		g.rules = Rules{ShapesPerDay: 1}
		g.rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), rand.Uint64()))
		g.shapes = []shapes.Shape{s.library.Practice(g.rng)}
		if variant != nil {
			g.Variant = *variant
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	g.log = s.log.With("game", g.ID, "mode", string(mode))

	g.mu.Lock()
	err := g.loadShapeLocked()
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.r.Create(g.ID, g)
	if mode == mechanic.ModeDaily {
		s.EnsureRolloverLoop(g.ID)
	}
	g.log.Info("game created", "variant", g.Variant.String(), "shapes", len(g.shapes), "day", sched.Key())
	return g, nil
}

// GetGame returns a game by ID if it exists.
func (s *Store) GetGame(id string) (*Game, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, ok
}

// Broadcaster returns the broadcaster for a game, or nil if it does not
// exist.
func (s *Store) Broadcaster(id string) *realtime.Broadcaster[string] {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a game update with a typed event.
func (s *Store) Publish(id string, events ...string) {
	for _, e := range events {
		s.r.Publish(id, e)
	}
}

// EnsureRolloverLoop ends a daily game at local midnight and tells its
// subscribers a new puzzle is out.
func (s *Store) EnsureRolloverLoop(id string) {
	getState := func() *Game {
		room, ok := s.r.Get(id)
		if !ok {
			return nil
		}
		return room.State
	}
	tick := func(state *Game, now time.Time) (time.Time, []string, bool) {
		if state == nil {
			return time.Time{}, nil, true
		}
		next := state.NextPuzzleAt()
		if now.Before(next) {
			return next, nil, false
		}
		if state.Expire(now) {
			state.log.Info("daily puzzle expired")
		}
		return time.Time{}, []string{EventPuzzle, EventTurn}, true
	}
	s.r.RunLoop(id, getState, tick)
}

// Sweep deletes games idle for longer than ttl and returns how many went.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	var stale []string
	s.r.Each(func(room *realtime.Room[*Game]) bool {
		if now.Sub(room.State.LastActive()) > ttl {
			stale = append(stale, room.ID)
		}
		return true
	})
	for _, id := range stale {
		s.r.Delete(id)
	}
	if len(stale) > 0 {
		s.log.Info("swept idle games", "count", len(stale))
	}
	return len(stale)
}

// Len is the number of live games.
func (s *Store) Len() int { return s.r.Len() }

// Schedule is the daily schedule in effect at now.
func (s *Store) Schedule(now time.Time) realtime.DailySchedule {
	return realtime.NewDailySchedule(s.opts.Location, now)
}

// Today is the mechanic and day key for a daily game started at now.
func (s *Store) Today(now time.Time) (mechanic.Variant, string) {
	sched := s.Schedule(now)
	return mechanic.ForDay(mechanic.ModeDaily, sched.Day.Weekday()), sched.Key()
}
