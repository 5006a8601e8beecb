package session

import (
	"sync"

	"sortmyscene/internal/auth"
)

// Auth-state change types, one per session transition.
const (
	ChangeSignedIn  = "SIGNED_IN"
	ChangeSignedOut = "SIGNED_OUT"
)

// Change is one auth-state notification.
type Change struct {
	Type string     `json:"type"`
	User *auth.User `json:"user,omitempty"`
}

// Broadcaster fans session changes out to subscribers. Subscribers that fall
// behind miss changes rather than blocking publishers; a consumer that needs
// the current state re-reads it after a notification anyway.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan Change),
	}
}

// Subscribe registers a listener. The returned unsubscribe function releases
// the subscription unconditionally and may be called more than once.
func (b *Broadcaster) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Change, 8)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers a change to every subscriber without blocking.
func (b *Broadcaster) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// Len reports the number of active subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
