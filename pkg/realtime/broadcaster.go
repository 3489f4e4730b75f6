package realtime

import "sync"

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 10

// Broadcaster fans events out to subscribers. A lagging subscriber misses
// events rather than blocking the publisher.
type Broadcaster[E any] struct {
	mu     sync.Mutex
	subs   map[chan E]struct{}
	buffer int
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster[E any]() *Broadcaster[E] {
	return NewBufferedBroadcaster[E](DefaultBuffer)
}

// NewBufferedBroadcaster creates a broadcaster whose subscriber channels
// hold up to n events.
func NewBufferedBroadcaster[E any](n int) *Broadcaster[E] {
	if n < 1 {
		n = 1
	}
	return &Broadcaster[E]{
		subs:   make(map[chan E]struct{}),
		buffer: n,
	}
}

// Subscribe registers a new subscriber and returns its event channel. After
// Close the channel is returned already closed.
func (b *Broadcaster[E]) Subscribe() chan E {
	ch := make(chan E, b.buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[E]) Unsubscribe(ch chan E) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to all subscribers.
func (b *Broadcaster[E]) Publish(event E) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Drop if the subscriber is lagging; next event will catch it up.
		}
	}
	b.mu.Unlock()
}

// Len is the number of live subscribers.
func (b *Broadcaster[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscribers get a closed
// channel and Publish becomes a no-op.
func (b *Broadcaster[E]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	clear(b.subs)
}
