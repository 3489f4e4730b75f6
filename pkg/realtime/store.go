package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster[string]
}

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	loops map[string]context.CancelFunc
	wakes map[string]chan struct{}
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
		loops: make(map[string]context.CancelFunc),
		wakes: make(map[string]chan struct{}),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster[string]()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Len is the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Each calls fn for every room until fn returns false. fn runs without the
// store lock held.
func (s *RoomStore[T]) Each(fn func(r *Room[T]) bool) {
	s.mu.RLock()
	rooms := make([]*Room[T], 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()
	for _, r := range rooms {
		if !fn(r) {
			return
		}
	}
}

// Delete removes a room, stops its loop and closes its subscribers.
func (s *RoomStore[T]) Delete(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	cancel := s.loops[id]
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if ok && r.hub != nil {
		r.hub.Close()
	}
	return ok
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are
// ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	s.mu.RLock()
	r, ok := s.rooms[id]
	s.mu.RUnlock()
	if !ok || r.hub == nil {
		return
	}
	r.hub.Publish(event)
}

// Broadcaster returns the broadcaster for the room, or nil if the room does
// not exist.
func (s *RoomStore[T]) Broadcaster(id string) *Broadcaster[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil
	}
	if r.hub == nil {
		r.hub = NewBroadcaster[string]()
	}
	return r.hub
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// stop true means exit the loop.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []string, stop bool)

// RunLoop starts a timing loop for the room. If a loop already exists for id, it is not started again.
func (s *RoomStore[T]) RunLoop(id string, getState func() T, tick TickFunc[T]) {
	s.mu.Lock()
	if _, ok := s.loops[id]; ok {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	s.loops[id] = cancel
	s.wakes[id] = wake
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.loops, id)
			delete(s.wakes, id)
			s.mu.Unlock()
			cancel()
		}()

		for {
			state := getState()
			now := time.Now().UTC()
			next, events, stop := tick(state, now)
			for _, e := range events {
				s.Publish(id, e)
			}
			if stop {
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-wake:
				timer.Stop()
			}
		}
	}()
}

// Wake unblocks the room's loop so it recomputes immediately.
func (s *RoomStore[T]) Wake(id string) {
	s.mu.RLock()
	wake, ok := s.wakes[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}
