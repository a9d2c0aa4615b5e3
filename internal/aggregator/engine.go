package aggregator

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/book"
)

// Publisher receives each Summary produced by the Engine. The
// Broadcast Hub implements this.
type Publisher interface {
	Publish(Summary)
}

// Engine wraps State behind an exclusive guard: every book update is
// applied and immediately followed by summary production under the
// same lock, so the sequence of published summaries is serializable.
// The lock is never held across a suspension point — Publish must not
// block.
type Engine struct {
	mu    sync.Mutex
	state *State
	depth int
	pub   Publisher
	log   zerolog.Logger
}

// NewEngine builds an Engine that merges up to depth levels per side
// and hands each resulting Summary to pub.
func NewEngine(depth int, pub Publisher, log zerolog.Logger) *Engine {
	return &Engine{
		state: NewState(),
		depth: depth,
		pub:   pub,
		log:   log.With().Str("component", "aggregator").Logger(),
	}
}

// OnBook implements feed.Sink: it replaces venue's snapshot, merges,
// and publishes, all under the guard. Publish must never block — the
// Hub's drop-oldest policy guarantees that, so holding the lock across
// it does not risk stalling the other venue's supervisor.
func (e *Engine) OnBook(venue book.Venue, ob book.Orderbook) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Put(venue, ob)
	summary := Merge(e.state.Snapshots(), e.depth)
	e.pub.Publish(summary)
}
