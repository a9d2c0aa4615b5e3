package broadcast_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/aggregator"
	"github.com/fd1az/orderbook-aggregator/internal/broadcast"
)

func summaryWithSpread(spread float64) aggregator.Summary {
	return aggregator.Summary{Spread: spread}
}

func TestHub_Publish_NoSubscribers_DoesNotBlock(t *testing.T) {
	hub := broadcast.NewHub(zerolog.Nop(), nil)
	hub.Publish(summaryWithSpread(1))
	if got := hub.Subscribers(); got != 0 {
		t.Fatalf("Subscribers() = %d, want 0", got)
	}
}

func TestHub_Publish_DeliversToSubscriber(t *testing.T) {
	hub := broadcast.NewHub(zerolog.Nop(), nil)
	feed, detach := hub.Subscribe()
	defer detach()

	hub.Publish(summaryWithSpread(5))

	select {
	case s := <-feed:
		if s.Spread != 5 {
			t.Errorf("Spread = %v, want 5", s.Spread)
		}
	default:
		t.Fatal("expected a summary to be queued")
	}
}

func TestHub_Detach_StopsDelivery(t *testing.T) {
	hub := broadcast.NewHub(zerolog.Nop(), nil)
	_, detach := hub.Subscribe()
	detach()

	if got := hub.Subscribers(); got != 0 {
		t.Fatalf("Subscribers() = %d, want 0 after detach", got)
	}
	hub.Publish(summaryWithSpread(1))
}

// TestHub_Overflow_KeepsOnlyMostRecentInFIFOOrder reproduces a
// subscriber that never reads while 60 summaries are produced: it
// must end up with exactly the 50 most recent, oldest first.
func TestHub_Overflow_KeepsOnlyMostRecentInFIFOOrder(t *testing.T) {
	hub := broadcast.NewHub(zerolog.Nop(), nil)
	feed, detach := hub.Subscribe()
	defer detach()

	const produced = 60
	const capacity = 50
	for i := 0; i < produced; i++ {
		hub.Publish(summaryWithSpread(float64(i)))
	}

	for want := produced - capacity; want < produced; want++ {
		select {
		case s := <-feed:
			if s.Spread != float64(want) {
				t.Fatalf("got spread %v, want %v (FIFO order of surviving summaries)", s.Spread, want)
			}
		default:
			t.Fatalf("expected %d buffered summaries, channel ran dry early", capacity)
		}
	}

	select {
	case s := <-feed:
		t.Fatalf("expected exactly %d summaries, got an extra one: %+v", capacity, s)
	default:
	}
}

func TestHub_MultipleSubscribers_EachGetsEveryPublish(t *testing.T) {
	hub := broadcast.NewHub(zerolog.Nop(), nil)
	feedA, detachA := hub.Subscribe()
	defer detachA()
	feedB, detachB := hub.Subscribe()
	defer detachB()

	hub.Publish(summaryWithSpread(7))

	for _, feed := range []<-chan aggregator.Summary{feedA, feedB} {
		select {
		case s := <-feed:
			if s.Spread != 7 {
				t.Errorf("Spread = %v, want 7", s.Spread)
			}
		default:
			t.Fatal("expected both subscribers to receive the publish")
		}
	}
}
