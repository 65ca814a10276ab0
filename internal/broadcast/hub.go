package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

const defaultBuffer = 16

type subscription struct {
	ch chan Message
}

// Hub fans messages out to in-process subscribers keyed by match id. A subscriber whose buffer
// is full misses the message rather than blocking the publisher.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	buffer  int

	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	closed bool
}

// NewHub builds a hub; buffer <= 0 uses the default per-subscriber buffer.
func NewHub(buffer int, logger *slog.Logger, rec *metrics.Recorder) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		logger:  logger,
		metrics: rec,
		buffer:  buffer,
		subs:    make(map[string]map[*subscription]struct{}),
	}
}

// Subscribe registers for messages about matchID.
func (h *Hub) Subscribe(matchID string) (<-chan Message, func()) {
	sub := &subscription{ch: make(chan Message, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[*subscription]struct{})
	}
	h.subs[matchID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { h.remove(matchID, sub) })
	}
}

// Publish delivers msg to every current subscriber of its match.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}

	for sub := range h.subs[msg.MatchID] {
		select {
		case sub.ch <- msg:
		default:
			h.metrics.RecordDrop()
			logging.Debug(h.logger, "subscriber buffer full, dropping update", logging.FieldMatchID, msg.MatchID)
		}
	}
	return nil
}

// Subscribers returns the number of live subscriptions for matchID.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}

// Close ends every subscription. Later publishes return ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, subs := range h.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(h.subs, id)
	}
}

func (h *Hub) remove(matchID string, sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subs[matchID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.subs, matchID)
	}
}
