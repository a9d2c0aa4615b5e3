// Package health exposes the aggregator's liveness, readiness and
// per-venue feed connectivity over plain HTTP, alongside the gRPC and
// metrics servers.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// VenueStatus is one venue feed's current connectivity, as reported by
// its Supervisor.
type VenueStatus struct {
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
}

// VenueProbe reports a venue feed's live connectivity. It must not
// block: Supervisor.Connected is a simple atomic read, not an I/O call.
type VenueProbe func() VenueStatus

// Report is the JSON body served by /health.
type Report struct {
	Status      string                 `json:"status"`
	Venues      map[string]VenueStatus `json:"venues"`
	Subscribers int                    `json:"subscribers"`
	Timestamp   string                 `json:"timestamp"`
}

// Server exposes /health, /ready and /live.
type Server struct {
	addr        string
	probes      map[string]VenueProbe
	subscribers func() int
	mu          sync.RWMutex
	server      *http.Server
	log         zerolog.Logger
}

// NewServer creates a health server that will listen on addr.
// subscribers reports the broadcast hub's current subscriber count and
// may be nil.
func NewServer(addr string, subscribers func() int, log zerolog.Logger) *Server {
	return &Server{
		addr:        addr,
		probes:      make(map[string]VenueProbe),
		subscribers: subscribers,
		log:         log.With().Str("component", "health").Logger(),
	}
}

// RegisterVenue wires a venue feed's live connectivity into /health and
// /ready. A disconnected venue marks the service degraded/not-ready.
func (s *Server) RegisterVenue(name string, probe VenueProbe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes[name] = probe
}

// Start starts the health server in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("health server stopped unexpectedly")
		}
	}()

	return nil
}

// Stop gracefully stops the health server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// report snapshots every registered venue probe and the subscriber
// count into a Report.
func (s *Server) report() Report {
	s.mu.RLock()
	probes := make(map[string]VenueProbe, len(s.probes))
	for name, probe := range s.probes {
		probes[name] = probe
	}
	s.mu.RUnlock()

	venues := make(map[string]VenueStatus, len(probes))
	allConnected := true
	for name, probe := range probes {
		vs := probe()
		venues[name] = vs
		if !vs.Connected {
			allConnected = false
		}
	}

	status := "ok"
	if !allConnected {
		status = "degraded"
	}

	subscribers := 0
	if s.subscribers != nil {
		subscribers = s.subscribers()
	}

	return Report{
		Status:      status,
		Venues:      venues,
		Subscribers: subscribers,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// handleHealth returns full status, including per-venue connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.report()

	if report.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleReady returns whether every venue feed is connected.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if report := s.report(); report.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// handleLive returns whether the process is alive (simple liveness probe).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}
