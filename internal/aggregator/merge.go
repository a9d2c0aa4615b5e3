package aggregator

import (
	"container/heap"
	"math"

	"github.com/shopspring/decimal"

	"github.com/fd1az/orderbook-aggregator/internal/book"
)

// entry is one venue's current position in a k-way merge: its next
// unemitted level and how far into that side it has advanced.
type entry struct {
	venue book.Venue
	level book.Level
	next  int // index of level within its side, for looking up the successor
}

// ladderHeap is a container/heap.Interface over entries, ordered by
// price. less decides max-heap (bids) vs min-heap (asks) behavior.
type ladderHeap struct {
	entries []entry
	less    func(a, b book.Level) bool
}

func (h ladderHeap) Len() int            { return len(h.entries) }
func (h ladderHeap) Less(i, j int) bool  { return h.less(h.entries[i].level, h.entries[j].level) }
func (h ladderHeap) Swap(i, j int)       { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *ladderHeap) Push(x interface{}) { h.entries = append(h.entries, x.(entry)) }
func (h *ladderHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[:n-1]
	return item
}

// Merge produces the top-N cross-venue Summary from snapshots, per
// side: initialize one heap entry per venue with a level on that side,
// then repeat up to N times: pop the extreme, emit it, push the next
// level from the same venue if one exists. Tie-break order among
// equal prices is whatever container/heap's pop order happens to be.
func Merge(snapshots map[book.Venue]book.Orderbook, n int) Summary {
	bids := mergeSide(snapshots, n, func(ob book.Orderbook) []book.Level { return ob.Bids },
		func(a, b book.Level) bool { return a.Price.GreaterThan(b.Price) })
	asks := mergeSide(snapshots, n, func(ob book.Orderbook) []book.Level { return ob.Asks },
		func(a, b book.Level) bool { return a.Price.LessThan(b.Price) })

	return Summary{
		Spread: computeSpread(bids, asks),
		Bids:   bids,
		Asks:   asks,
	}
}

func mergeSide(
	snapshots map[book.Venue]book.Orderbook,
	n int,
	side func(book.Orderbook) []book.Level,
	better func(a, b book.Level) bool,
) []SummaryLevel {
	h := &ladderHeap{less: better}
	heap.Init(h)

	for venue, ob := range snapshots {
		levels := side(ob)
		if len(levels) > 0 {
			heap.Push(h, entry{venue: venue, level: levels[0], next: 1})
		}
	}

	out := make([]SummaryLevel, 0, n)
	for i := 0; i < n && h.Len() > 0; i++ {
		top := heap.Pop(h).(entry)
		out = append(out, SummaryLevel{
			Venue:  top.venue.String(),
			Price:  decimalToFloat(top.level.Price),
			Amount: decimalToFloat(top.level.Quantity),
		})

		levels := side(snapshots[top.venue])
		if top.next < len(levels) {
			heap.Push(h, entry{venue: top.venue, level: levels[top.next], next: top.next + 1})
		}
	}
	return out
}

func computeSpread(bids, asks []SummaryLevel) float64 {
	if len(bids) == 0 || len(asks) == 0 {
		return 0.0
	}
	return asks[0].Price - bids[0].Price
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return f
}
