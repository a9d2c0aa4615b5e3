// Package broadcast fans a single stream of aggregator.Summary values
// out to any number of gRPC subscribers. Delivery is best-effort: a
// subscriber that falls behind loses its oldest unread summaries
// rather than stall the publisher.
package broadcast

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/aggregator"
	"github.com/fd1az/orderbook-aggregator/internal/metrics"
)

// bufferSize bounds how many unread summaries a subscriber can
// accumulate before the hub starts dropping the oldest ones.
const bufferSize = 50

// Hub is a zero-value-unsafe, construct-via-NewHub multicaster. It
// implements aggregator.Publisher.
type Hub struct {
	mu      sync.Mutex
	next    uint64
	subs    map[uint64]chan aggregator.Summary
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewHub builds an empty Hub. m may be nil, in which case overflow
// events are only logged.
func NewHub(log zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		subs:    make(map[uint64]chan aggregator.Summary),
		log:     log.With().Str("component", "broadcast").Logger(),
		metrics: m,
	}
}

// Subscribe registers a new consumer and returns its feed along with a
// detach func. The caller must call detach exactly once, typically via
// defer, when it stops reading.
func (h *Hub) Subscribe() (<-chan aggregator.Summary, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan aggregator.Summary, bufferSize)
	h.subs[id] = ch

	detach := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
	return ch, detach
}

// Publish hands summary to every current subscriber. It never blocks:
// a subscriber whose buffer is full has its oldest unread summary
// dropped to make room. Publish is safe to call with zero subscribers.
func (h *Hub) Publish(summary aggregator.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- summary:
			continue
		default:
		}

		// Buffer full: drop the oldest queued summary and retry once.
		select {
		case <-ch:
			h.log.Error().Uint64("subscriber", id).Msg("subscriber buffer full, dropping oldest summary")
			if h.metrics != nil {
				h.metrics.HubOverflows.WithLabelValues(strconv.FormatUint(id, 10)).Inc()
			}
		default:
		}

		select {
		case ch <- summary:
		default:
			// A concurrent reader drained and refilled between our two
			// selects; the subscriber is still caught up either way.
		}
	}
}

// Subscribers reports the current number of attached consumers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
