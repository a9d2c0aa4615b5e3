package feed

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/book"
	"github.com/fd1az/orderbook-aggregator/internal/metrics"
)

// reconnectBackoff is the fixed delay before every new connection
// attempt, whether the previous connect failed or an established
// session ended. It is a coarse rate-limit guard, not a
// timeout, and it never grows: spec intentionally has no exponential
// backoff here.
const reconnectBackoff = 1 * time.Second

// Sink receives a successfully parsed book, tagged with the venue it
// came from. The Merge Engine implements this.
type Sink interface {
	OnBook(venue book.Venue, ob book.Orderbook)
}

// Supervisor is a long-running per-venue loop: connect, subscribe,
// stream books to a Sink, and on any failure start over from scratch
// after a fixed delay. It never gives up.
type Supervisor struct {
	adapter   Adapter
	symbol    string
	sink      Sink
	log       zerolog.Logger
	metrics   *metrics.Metrics
	connected atomic.Bool
}

// NewSupervisor builds a Supervisor for adapter's venue. sink is
// handed to the supervisor's background loop exactly once; it is not
// recoverable afterward. m may be nil.
func NewSupervisor(adapter Adapter, symbol string, sink Sink, log zerolog.Logger, m *metrics.Metrics) *Supervisor {
	return &Supervisor{
		adapter: adapter,
		symbol:  symbol,
		sink:    sink,
		log:     log.With().Str("venue", adapter.Venue().String()).Logger(),
		metrics: m,
	}
}

// Connected reports whether the venue feed is currently connected and
// streaming. It is safe to call from any goroutine, including a
// health-check HTTP handler.
func (s *Supervisor) Connected() bool {
	return s.connected.Load()
}

// Run blocks until ctx is cancelled, reconnecting forever in between.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		session, err := Connect(ctx, s.adapter, s.symbol, s.log)
		if err != nil {
			s.log.Info().Err(err).Msg("connect failed, retrying")
			s.recordReconnect()
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectBackoff):
			}
			continue
		}

		s.connected.Store(true)
		s.stream(ctx, session)
		s.connected.Store(false)
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (s *Supervisor) recordReconnect() {
	if s.metrics != nil {
		s.metrics.SupervisorReconnects.WithLabelValues(s.adapter.Venue().String()).Inc()
	}
}

// stream repeatedly pulls books from session until it errors, then
// returns so Run can reconnect from scratch.
func (s *Supervisor) stream(ctx context.Context, session *Session) {
	defer session.Close()

	for {
		ob, err := session.NextBook(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Info().Err(err).Msg("session ended, reconnecting")
			s.recordReconnect()
			return
		}
		s.sink.OnBook(s.adapter.Venue(), ob)
	}
}
