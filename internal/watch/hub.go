// Package watch fans out per-user change notifications to live subscribers.
package watch

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub delivers "something changed" signals per user. A notification carries no
// payload: subscribers re-read whatever they display. Signals coalesce, so a slow
// subscriber sees at most one pending notification.
type Hub struct {
	mu     sync.Mutex
	subs   map[primitive.ObjectID]map[chan struct{}]struct{}
	active prometheus.Gauge
}

// NewHub creates a hub. active, when not nil, tracks the number of live subscriptions.
func NewHub(active prometheus.Gauge) *Hub {
	return &Hub{
		subs:   make(map[primitive.ObjectID]map[chan struct{}]struct{}),
		active: active,
	}
}

// Subscribe registers for the user's changes until ctx is done, at which point
// the returned channel is closed.
func (h *Hub) Subscribe(ctx context.Context, userID primitive.ObjectID) <-chan struct{} {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()
	if h.active != nil {
		h.active.Inc()
	}
	log.Tracef("watch: subscribed user %s", userID.Hex())

	go func() {
		<-ctx.Done()
		h.unsubscribe(userID, ch)
	}()
	return ch
}

func (h *Hub) unsubscribe(userID primitive.ObjectID, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[userID]
	delete(set, ch)
	if len(set) == 0 {
		delete(h.subs, userID)
	}
	close(ch)
	if h.active != nil {
		h.active.Dec()
	}
	log.Tracef("watch: unsubscribed user %s", userID.Hex())
}

// Notify signals every subscriber of the user. It never blocks.
func (h *Hub) Notify(userID primitive.ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions of the user.
func (h *Hub) Subscribers(userID primitive.ObjectID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
