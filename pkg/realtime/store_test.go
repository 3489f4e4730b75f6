package realtime

import (
	"sync"
	"testing"
	"time"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string]()
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
	if s.Len() != 1 {
		t.Errorf("Len %d, want 1", s.Len())
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}

	// Unknown rooms are ignored.
	s.Publish("missing", "event2")
	if s.Broadcaster("missing") != nil {
		t.Error("Broadcaster should be nil for a missing room")
	}
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	ch := s.Broadcaster("r1").Subscribe()

	if !s.Delete("r1") {
		t.Fatal("Delete returned false for existing room")
	}
	if _, open := <-ch; open {
		t.Error("subscribers should be closed when the room is deleted")
	}
	if _, ok := s.Get("r1"); ok {
		t.Error("room still present after Delete")
	}
	if s.Delete("r1") {
		t.Error("second Delete should return false")
	}
}

func TestRoomStore_Each(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("a", 1)
	s.Create("b", 2)
	s.Create("c", 3)

	sum := 0
	s.Each(func(r *Room[int]) bool {
		sum += r.State
		return true
	})
	if sum != 6 {
		t.Errorf("sum %d, want 6", sum)
	}

	visited := 0
	s.Each(func(*Room[int]) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited %d rooms, want 1", visited)
	}
}

func TestRoomStore_RunLoop_PublishesAndStops(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("r1", 0)
	hub := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	calls := 0
	s.RunLoop("r1", func() int { return 0 }, func(_ int, now time.Time) (time.Time, []string, bool) {
		calls++
		if calls == 1 {
			return now.Add(10 * time.Millisecond), []string{"tick"}, false
		}
		return time.Time{}, []string{"done"}, true
	})

	for _, want := range []string{"tick", "done"} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	// a finished loop unregisters itself, so a new one can start
	restarted := make(chan struct{})
	var once sync.Once
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.RunLoop("r1", func() int { return 0 }, func(_ int, _ time.Time) (time.Time, []string, bool) {
			once.Do(func() { close(restarted) })
			return time.Time{}, nil, true
		})
		select {
		case <-restarted:
			return
		case <-time.After(5 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("loop did not exit after stop")
		}
	}
}

func TestRoomStore_Wake(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("r1", 0)
	hub := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.RunLoop("r1", func() int { return 0 }, func(_ int, now time.Time) (time.Time, []string, bool) {
		return now.Add(time.Hour), []string{"tick"}, false
	})
	defer s.Delete("r1")

	<-ch
	s.Wake("r1")
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("Wake did not rerun the tick")
	}
}

func TestRoomStore_Wake_NoPanicWhenNoLoop(t *testing.T) {
	s := NewRoomStore[string]()
	s.Wake("nonexistent")
}
