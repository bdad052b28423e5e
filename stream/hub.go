// Package stream fans appended log records out to live subscribers (SSE and
// WebSocket handlers). Delivery is best-effort: a subscriber that cannot keep
// up has events dropped rather than blocking ingestion.
package stream

import (
	"sync"
	"sync/atomic"

	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/telemetry"
)

// DefaultBuffer is the per-subscriber channel depth.
const DefaultBuffer = 64

// Hub is the broadcast registry.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan entity.Record]struct{}
	buffer  int
	dropped atomic.Uint64
}

// NewHub returns a hub with the given per-subscriber buffer (DefaultBuffer
// when <= 0).
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	telemetry.Init()
	return &Hub{subs: make(map[chan entity.Record]struct{}), buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called exactly once; it closes the channel.
func (h *Hub) Subscribe() (<-chan entity.Record, func()) {
	ch := make(chan entity.Record, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the record to every subscriber, skipping full buffers.
// Returns the number of subscribers that received it.
func (h *Hub) Publish(rec entity.Record) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for ch := range h.subs {
		select {
		case ch <- rec:
			delivered++
		default:
			h.dropped.Add(1)
			telemetry.BroadcastDrops.Inc()
		}
	}
	return delivered
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped due to full buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
