// Package rpcserver implements the gRPC front-end: one subscriber
// attaches to the broadcast hub per call and streams summaries until
// the client disconnects.
package rpcserver

import (
	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/api/orderbookpb"
	"github.com/fd1az/orderbook-aggregator/internal/aggregator"
	"github.com/fd1az/orderbook-aggregator/internal/metrics"
	"github.com/fd1az/orderbook-aggregator/internal/ratelimit"
)

// Hub is the subset of broadcast.Hub the server depends on.
type Hub interface {
	Subscribe() (<-chan aggregator.Summary, func())
}

// Server implements orderbookpb.OrderbookAggregatorServer.
type Server struct {
	orderbookpb.UnimplementedOrderbookAggregatorServer
	hub     Hub
	limiter *ratelimit.SubscriptionLimiter
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New builds a Server backed by hub. limiter only observes the rate of
// incoming subscription attempts for orderbook_rpc_subscribe_bursts_total;
// it never rejects a call. m may be nil.
func New(hub Hub, limiter *ratelimit.SubscriptionLimiter, log zerolog.Logger, m *metrics.Metrics) *Server {
	return &Server{
		hub:     hub,
		limiter: limiter,
		log:     log.With().Str("component", "rpcserver").Logger(),
		metrics: m,
	}
}

// BookSummary attaches a new hub subscriber for the lifetime of the
// stream and forwards every summary it receives until the client
// disconnects or the stream's context is done. The call itself never
// fails because of subscription volume; a burst above the configured
// rate is only logged and counted.
func (s *Server) BookSummary(_ *orderbookpb.Empty, stream orderbookpb.OrderbookAggregator_BookSummaryServer) error {
	if !s.limiter.Allow() {
		s.log.Warn().Msg("subscription attempts above configured rate")
		if s.metrics != nil {
			s.metrics.RPCSubscribeBursts.Inc()
		}
	}

	feed, detach := s.hub.Subscribe()
	if s.metrics != nil {
		s.metrics.RPCSubscribers.Inc()
	}
	defer detach()
	defer func() {
		if s.metrics != nil {
			s.metrics.RPCSubscribers.Dec()
		}
	}()

	ctx := stream.Context()
	s.log.Info().Msg("subscriber attached")
	defer s.log.Info().Msg("subscriber detached")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case summary := <-feed:
			if err := stream.Send(toProto(summary)); err != nil {
				return err
			}
		}
	}
}

func toProto(s aggregator.Summary) *orderbookpb.Summary {
	return &orderbookpb.Summary{
		Spread: s.Spread,
		Bids:   toProtoLevels(s.Bids),
		Asks:   toProtoLevels(s.Asks),
	}
}

func toProtoLevels(levels []aggregator.SummaryLevel) []*orderbookpb.Level {
	out := make([]*orderbookpb.Level, len(levels))
	for i, l := range levels {
		out[i] = &orderbookpb.Level{
			Exchange: l.Venue,
			Price:    l.Price,
			Amount:   l.Amount,
		}
	}
	return out
}
