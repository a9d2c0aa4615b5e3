// Package main is the entry point for the cross-venue orderbook
// aggregator.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/fd1az/orderbook-aggregator/api/orderbookpb"
	"github.com/fd1az/orderbook-aggregator/internal/aggregator"
	"github.com/fd1az/orderbook-aggregator/internal/book"
	"github.com/fd1az/orderbook-aggregator/internal/broadcast"
	"github.com/fd1az/orderbook-aggregator/internal/config"
	"github.com/fd1az/orderbook-aggregator/internal/feed"
	"github.com/fd1az/orderbook-aggregator/internal/feed/adapter/binance"
	"github.com/fd1az/orderbook-aggregator/internal/feed/adapter/bitstamp"
	"github.com/fd1az/orderbook-aggregator/internal/health"
	"github.com/fd1az/orderbook-aggregator/internal/logging"
	"github.com/fd1az/orderbook-aggregator/internal/metrics"
	"github.com/fd1az/orderbook-aggregator/internal/ratelimit"
	"github.com/fd1az/orderbook-aggregator/internal/rpcserver"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Stringer("signal", sig).Msg("shutting down")
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	hub := broadcast.NewHub(log, m)
	engine := aggregator.NewEngine(book.Depth, hub, log)

	binanceSupervisor := feed.NewSupervisor(binance.New(), cfg.Symbol, engine, log, m)
	bitstampSupervisor := feed.NewSupervisor(bitstamp.New(), cfg.Symbol, engine, log, m)
	supervisors := []*feed.Supervisor{binanceSupervisor, bitstampSupervisor}

	healthServer := health.NewServer(cfg.HealthAddress, hub.Subscribers, log)
	healthServer.RegisterVenue("binance", func() health.VenueStatus {
		return health.VenueStatus{Connected: binanceSupervisor.Connected()}
	})
	healthServer.RegisterVenue("bitstamp", func() health.VenueStatus {
		return health.VenueStatus{Connected: bitstampSupervisor.Connected()}
	})
	if err := healthServer.Start(); err != nil {
		return fmt.Errorf("start health server: %w", err)
	}
	defer healthServer.Stop(context.Background())

	var wg sync.WaitGroup
	for _, s := range supervisors {
		wg.Add(1)
		go func(s *feed.Supervisor) {
			defer wg.Done()
			s.Run(ctx)
		}(s)
	}

	metricsErrCh := make(chan error, 1)
	go func() {
		metricsErrCh <- metrics.Serve(cfg.MetricsAddress, reg)
	}()

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddress, err)
	}

	limiter := ratelimit.NewSubscriptionLimiter(cfg.SubscribeRatePerSec, cfg.SubscribeBurst)
	grpcServer := grpc.NewServer()
	orderbookpb.RegisterOrderbookAggregatorServer(grpcServer, rpcserver.New(hub, limiter, log, m))

	grpcErrCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ListenAddress).Msg("gRPC server listening")
		grpcErrCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-grpcErrCh:
		cancel()
		wg.Wait()
		return fmt.Errorf("grpc server: %w", err)
	case err := <-metricsErrCh:
		cancel()
		wg.Wait()
		return fmt.Errorf("metrics server: %w", err)
	}

	grpcServer.GracefulStop()
	wg.Wait()
	return nil
}
