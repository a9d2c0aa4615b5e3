package config_test

import (
	"testing"

	"github.com/fd1az/orderbook-aggregator/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "btcusdt" {
		t.Errorf("Symbol = %q, want %q", cfg.Symbol, "btcusdt")
	}
	if cfg.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want %q", cfg.ListenAddress, "127.0.0.1:8080")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.HealthAddress != "127.0.0.1:8081" {
		t.Errorf("HealthAddress = %q, want %q", cfg.HealthAddress, "127.0.0.1:8081")
	}
	if cfg.SubscribeRatePerSec != 5 {
		t.Errorf("SubscribeRatePerSec = %v, want %v", cfg.SubscribeRatePerSec, 5)
	}
	if cfg.SubscribeBurst != 10 {
		t.Errorf("SubscribeBurst = %d, want %d", cfg.SubscribeBurst, 10)
	}
}

func TestParse_InvalidHealthAddress(t *testing.T) {
	if _, err := config.Parse([]string{"--health-address", "nope"}); err == nil {
		t.Error("expected an error for a malformed --health-address value")
	}
}

func TestParse_InvalidSubscribeRate(t *testing.T) {
	if _, err := config.Parse([]string{"--subscribe-rate", "0"}); err == nil {
		t.Error("expected an error for a non-positive --subscribe-rate value")
	}
}

func TestParse_InvalidSubscribeBurst(t *testing.T) {
	if _, err := config.Parse([]string{"--subscribe-burst", "0"}); err == nil {
		t.Error("expected an error for a --subscribe-burst value below 1")
	}
}

func TestParse_ShortAndLongFlags(t *testing.T) {
	cfg, err := config.Parse([]string{"-s", "ethusdt", "--address", "0.0.0.0:9000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "ethusdt" {
		t.Errorf("Symbol = %q, want %q", cfg.Symbol, "ethusdt")
	}
	if cfg.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("ListenAddress = %q, want %q", cfg.ListenAddress, "0.0.0.0:9000")
	}
}

func TestParse_InvalidAddress(t *testing.T) {
	if _, err := config.Parse([]string{"-a", "not-an-address"}); err == nil {
		t.Error("expected an error for a malformed --address value")
	}
}

func TestParse_InvalidLogLevel(t *testing.T) {
	if _, err := config.Parse([]string{"--log-level", "verbose"}); err == nil {
		t.Error("expected an error for an unrecognized --log-level value")
	}
}

func TestParse_EmptySymbol(t *testing.T) {
	if _, err := config.Parse([]string{"-s", ""}); err == nil {
		t.Error("expected an error for an empty --symbol value")
	}
}
