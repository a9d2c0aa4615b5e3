package aggregator_test

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/aggregator"
	"github.com/fd1az/orderbook-aggregator/internal/book"
)

type capturingPublisher struct {
	mu        sync.Mutex
	summaries []aggregator.Summary
}

func (p *capturingPublisher) Publish(s aggregator.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summaries = append(p.summaries, s)
}

func (p *capturingPublisher) all() []aggregator.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]aggregator.Summary(nil), p.summaries...)
}

func TestEngine_OnBook_PublishesAfterEachUpdate(t *testing.T) {
	pub := &capturingPublisher{}
	engine := aggregator.NewEngine(book.Depth, pub, zerolog.Nop())

	a := book.NewOrderbook(book.VenueBinance, levels(100), levels(101))
	engine.OnBook(book.VenueBinance, a)

	b := book.NewOrderbook(book.VenueBitstamp, levels(99), levels(102))
	engine.OnBook(book.VenueBitstamp, b)

	summaries := pub.all()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	// First summary reflects only binance.
	if len(summaries[0].Bids) != 1 || summaries[0].Bids[0].Venue != "binance" {
		t.Errorf("first summary = %+v, want only binance", summaries[0])
	}
	// Second summary reflects both venues merged.
	if len(summaries[1].Bids) != 2 {
		t.Errorf("second summary = %+v, want both venues merged", summaries[1])
	}
}

func TestEngine_OnBook_ReplacementDependsOnlyOnCurrentSnapshots(t *testing.T) {
	pub := &capturingPublisher{}
	engine := aggregator.NewEngine(book.Depth, pub, zerolog.Nop())

	engine.OnBook(book.VenueBinance, book.NewOrderbook(book.VenueBinance, levels(100), levels(101)))
	engine.OnBook(book.VenueBinance, book.NewOrderbook(book.VenueBinance, levels(200), levels(201)))

	summaries := pub.all()
	last := summaries[len(summaries)-1]
	if last.Bids[0].Price != 200 {
		t.Errorf("expected the replaced snapshot's price, got %+v", last.Bids[0])
	}
}
