package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/book"
	"github.com/fd1az/orderbook-aggregator/internal/feed"
)

type recordingSink struct {
	mu    sync.Mutex
	books int
}

func (s *recordingSink) OnBook(venue book.Venue, ob book.Orderbook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books++
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books
}

func TestSupervisor_StreamsBooksAndSurvivesReconnect(t *testing.T) {
	attempt := 0
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		ctx := context.Background()
		_, _, _ = conn.Read(ctx)
		conn.Write(ctx, websocket.MessageText, []byte("ack:btcusdt"))

		mu.Lock()
		attempt++
		first := attempt == 1
		mu.Unlock()

		conn.Write(ctx, websocket.MessageText, []byte("good"))
		if first {
			// First connection drops after one book to exercise reconnect.
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	sink := &recordingSink{}
	sup := feed.NewSupervisor(fakeAdapter{endpoint: url}, "btcusdt", sink, zerolog.Nop(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go sup.Run(ctx)

	deadline := time.Now().Add(1500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if sink.count() >= 2 {
			if !sup.Connected() {
				t.Error("expected Connected to report true once a session is streaming")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected at least 2 books across a reconnect, got %d", sink.count())
}

func TestSupervisor_Connected_FalseBeforeFirstConnect(t *testing.T) {
	sup := feed.NewSupervisor(fakeAdapter{endpoint: "ws://127.0.0.1:0"}, "btcusdt", &recordingSink{}, zerolog.Nop(), nil)
	if sup.Connected() {
		t.Error("expected Connected to report false before any session has been established")
	}
}
