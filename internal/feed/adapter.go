// Package feed drives one venue's WebSocket connection: dialing,
// subscribing, and turning book frames into book.Orderbook values,
// forever, surviving whatever the network or the venue throws at it.
package feed

import "github.com/fd1az/orderbook-aggregator/internal/book"

// Adapter is the stateless, venue-specific capability set a Session
// and Supervisor are parametrized over. Every method is pure: no
// adapter holds a connection or any other mutable state.
type Adapter interface {
	// Venue is the identity this adapter speaks for.
	Venue() book.Venue

	// Endpoint is the WebSocket URL to dial.
	Endpoint() string

	// SubscriptionMessage is the exact text frame to send immediately
	// after the socket opens, to request symbol's top-of-book stream.
	SubscriptionMessage(symbol string) string

	// IsSubscriptionAck reports whether frame confirms a successful
	// subscription to symbol.
	IsSubscriptionAck(symbol, frame string) bool

	// ParseBook decodes a book update frame into an Orderbook. A
	// non-nil error means frame was not a book update this adapter
	// recognizes; the session logs it and keeps reading.
	ParseBook(frame string) (book.Orderbook, error)
}
