package book

import "github.com/shopspring/decimal"

// Level is a single (price, quantity) entry on one side of a book.
// Ordering is lexicographic with Price as the primary key, Quantity
// secondary; the merge algorithm only relies on the price ordering.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Less reports whether l sorts before other under the total order on
// levels: price first, quantity breaks ties.
func (l Level) Less(other Level) bool {
	if cmp := l.Price.Cmp(other.Price); cmp != 0 {
		return cmp < 0
	}
	return l.Quantity.Cmp(other.Quantity) < 0
}
