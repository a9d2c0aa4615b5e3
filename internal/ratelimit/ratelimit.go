// Package ratelimit measures the rate of new BookSummary subscription
// attempts against a token bucket from golang.org/x/time/rate, so a
// reconnect storm (e.g. a crash-looping client) can be logged and
// counted. It does not reject or delay any call.
package ratelimit

import (
	"golang.org/x/time/rate"
)

// SubscriptionLimiter tracks whether new BookSummary streams arrive
// within the configured rate.
type SubscriptionLimiter struct {
	limiter *rate.Limiter
}

// NewSubscriptionLimiter allows up to burst subscriptions immediately,
// replenished at ratePerSecond thereafter.
func NewSubscriptionLimiter(ratePerSecond float64, burst int) *SubscriptionLimiter {
	return &SubscriptionLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

// Allow reports whether a subscription attempt right now is within the
// configured rate, consuming a token if it is.
func (l *SubscriptionLimiter) Allow() bool {
	return l.limiter.Allow()
}
