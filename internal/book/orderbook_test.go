package book

import (
	"testing"

	"github.com/shopspring/decimal"
)

func lvl(price, qty string) Level {
	return Level{
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(qty),
	}
}

func TestNewOrderbook_TruncatesToDepth(t *testing.T) {
	bids := make([]Level, 0, 15)
	for i := 15; i > 0; i-- {
		bids = append(bids, lvl(decimal.NewFromInt(int64(i)).String(), "1"))
	}

	ob := NewOrderbook(VenueBinance, bids, nil)

	if len(ob.Bids) != Depth {
		t.Fatalf("Bids length = %d, want %d", len(ob.Bids), Depth)
	}
	if !ob.Bids[0].Price.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Bids[0].Price = %s, want 15", ob.Bids[0].Price)
	}
}

func TestNewOrderbook_PanicsOnUnsortedBids(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unsorted bids, got none")
		}
	}()
	NewOrderbook(VenueBinance, []Level{lvl("100", "1"), lvl("101", "1")}, nil)
}

func TestNewOrderbook_PanicsOnUnsortedAsks(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unsorted asks, got none")
		}
	}()
	NewOrderbook(VenueBinance, nil, []Level{lvl("101", "1"), lvl("100", "1")})
}

func TestNewOrderbook_PanicsOnUnknownVenue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown venue, got none")
		}
	}()
	NewOrderbook(Venue(99), nil, nil)
}

func TestOrderbook_BestBidBestAsk(t *testing.T) {
	ob := NewOrderbook(VenueBitstamp,
		[]Level{lvl("100", "2"), lvl("99", "1")},
		[]Level{lvl("101", "3"), lvl("102", "1")},
	)

	bestBid, ok := ob.BestBid()
	if !ok || !bestBid.Price.Equal(decimal.RequireFromString("100")) {
		t.Errorf("BestBid = %+v, ok=%v, want price 100", bestBid, ok)
	}

	bestAsk, ok := ob.BestAsk()
	if !ok || !bestAsk.Price.Equal(decimal.RequireFromString("101")) {
		t.Errorf("BestAsk = %+v, ok=%v, want price 101", bestAsk, ok)
	}
}

func TestOrderbook_BestBidBestAsk_Empty(t *testing.T) {
	ob := NewOrderbook(VenueBinance, nil, nil)

	if _, ok := ob.BestBid(); ok {
		t.Error("BestBid ok=true for empty bids")
	}
	if _, ok := ob.BestAsk(); ok {
		t.Error("BestAsk ok=true for empty asks")
	}
}
