// Package config resolves the program's external interface: the
// handful of CLI flags this service accepts. There is no config file
// and no environment variable is read other than what the flag
// library itself understands, by design — the process's behavior is
// fully determined by its argv.
package config

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"
)

// Config is the fully resolved, validated configuration for a single
// run of the aggregator.
type Config struct {
	Symbol              string
	ListenAddress       string
	MetricsAddress      string
	HealthAddress       string
	LogLevel            string
	SubscribeRatePerSec float64
	SubscribeBurst      int
}

// Parse parses args (typically os.Args[1:]) into a Config, applying
// defaults and validating the result. It never reads a config file or
// an environment variable.
func Parse(args []string) (Config, error) {
	fs := pflag.NewFlagSet("aggregatord", pflag.ContinueOnError)

	symbol := fs.StringP("symbol", "s", "btcusdt", "trading symbol to aggregate across venues")
	address := fs.StringP("address", "a", "127.0.0.1:8080", "address the gRPC server listens on")
	metricsAddress := fs.String("metrics-address", "127.0.0.1:9090", "address the Prometheus /metrics endpoint listens on")
	healthAddress := fs.String("health-address", "127.0.0.1:8081", "address the /health, /ready and /live endpoints listen on")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	subscribeRate := fs.Float64("subscribe-rate", 5, "max new BookSummary subscriptions accepted per second")
	subscribeBurst := fs.Int("subscribe-burst", 10, "subscription bucket burst size above subscribe-rate")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Symbol:              *symbol,
		ListenAddress:       *address,
		MetricsAddress:      *metricsAddress,
		HealthAddress:       *healthAddress,
		LogLevel:            *logLevel,
		SubscribeRatePerSec: *subscribeRate,
		SubscribeBurst:      *subscribeBurst,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a value the rest of the
// program can act on without further checking.
func (c Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("config: symbol must not be empty")
	}
	if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		return fmt.Errorf("config: invalid address %q: %w", c.ListenAddress, err)
	}
	if _, _, err := net.SplitHostPort(c.MetricsAddress); err != nil {
		return fmt.Errorf("config: invalid metrics-address %q: %w", c.MetricsAddress, err)
	}
	if _, _, err := net.SplitHostPort(c.HealthAddress); err != nil {
		return fmt.Errorf("config: invalid health-address %q: %w", c.HealthAddress, err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log-level %q", c.LogLevel)
	}
	if c.SubscribeRatePerSec <= 0 {
		return fmt.Errorf("config: subscribe-rate must be positive, got %v", c.SubscribeRatePerSec)
	}
	if c.SubscribeBurst < 1 {
		return fmt.Errorf("config: subscribe-burst must be at least 1, got %d", c.SubscribeBurst)
	}
	return nil
}
