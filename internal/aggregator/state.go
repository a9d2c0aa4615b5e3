// Package aggregator holds the cross-venue merge: the latest snapshot
// per venue, the k-way merge that turns those snapshots into a top-N
// Summary, and the mutex-serialized Engine that ties ingest and
// publish together.
package aggregator

import "github.com/fd1az/orderbook-aggregator/internal/book"

// State is the latest Orderbook received from each venue. There is no
// history: a new snapshot for a venue replaces the prior one.
type State struct {
	books map[book.Venue]book.Orderbook
}

// NewState builds an empty State.
func NewState() *State {
	return &State{books: make(map[book.Venue]book.Orderbook)}
}

// Put replaces the snapshot for venue.
func (s *State) Put(venue book.Venue, ob book.Orderbook) {
	s.books[venue] = ob
}

// Snapshots returns every venue's current book. Callers must not
// mutate the returned map; it is read-only sharing of the live state,
// safe only because State.Put is never called concurrently with this
// (the Engine's mutex guarantees that).
func (s *State) Snapshots() map[book.Venue]book.Orderbook {
	return s.books
}
