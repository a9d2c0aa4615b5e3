// Package metrics exposes the aggregator's Prometheus counters and
// the HTTP endpoint that serves them.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge the aggregator publishes.
type Metrics struct {
	HubOverflows         *prometheus.CounterVec
	SupervisorReconnects *prometheus.CounterVec
	RPCSubscribers       prometheus.Gauge
	RPCSubscribeBursts   prometheus.Counter
}

// New registers the aggregator's metrics against reg and returns the
// handles used to record them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HubOverflows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_hub_overflows_total",
			Help: "Summaries dropped because a subscriber's buffer was full.",
		}, []string{"subscriber"}),
		SupervisorReconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_feed_reconnects_total",
			Help: "Times a venue feed reconnected after a terminal session error.",
		}, []string{"venue"}),
		RPCSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_rpc_subscribers",
			Help: "Number of clients currently streaming BookSummary.",
		}),
		RPCSubscribeBursts: factory.NewCounter(prometheus.CounterOpts{
			Name: "orderbook_rpc_subscribe_bursts_total",
			Help: "Times a new BookSummary call arrived above the configured subscription rate. Observational only: the call is never rejected for it.",
		}),
	}
}

// Serve blocks, serving reg's metrics on addr until the process exits
// or ListenAndServe returns an error.
func Serve(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec // metrics endpoint, not attacker-facing
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
