// Package bitstamp implements feed.Adapter for Bitstamp's live order
// book channel.
package bitstamp

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/orderbook-aggregator/internal/apperror"
	"github.com/fd1az/orderbook-aggregator/internal/book"
)

const endpoint = "wss://ws.bitstamp.net/"

// Adapter implements feed.Adapter for Bitstamp.
type Adapter struct{}

// New builds a Bitstamp adapter.
func New() Adapter { return Adapter{} }

func (Adapter) Venue() book.Venue { return book.VenueBitstamp }
func (Adapter) Endpoint() string  { return endpoint }

func (Adapter) SubscriptionMessage(symbol string) string {
	req := struct {
		Event string `json:"event"`
		Data  struct {
			Channel string `json:"channel"`
		} `json:"data"`
	}{Event: "bts:subscribe"}
	req.Data.Channel = fmt.Sprintf("order_book_%s", symbol)

	data, _ := json.Marshal(req)
	return string(data)
}

type eventFrame struct {
	Event string `json:"event"`
}

func (Adapter) IsSubscriptionAck(_, frame string) bool {
	var ack eventFrame
	if err := json.Unmarshal([]byte(frame), &ack); err != nil {
		return false
	}
	return ack.Event == "bts:subscription_succeeded"
}

type bookFrame struct {
	Data struct {
		Bids [][2]string `json:"bids"`
		Asks [][2]string `json:"asks"`
	} `json:"data"`
}

// ParseBook truncates each side to book.Depth: Bitstamp's channel
// carries the full book, unlike Binance's pre-truncated depth stream.
func (Adapter) ParseBook(frame string) (book.Orderbook, error) {
	var msg bookFrame
	if err := json.Unmarshal([]byte(frame), &msg); err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("bitstamp"), apperror.WithCause(err))
	}
	if len(msg.Data.Bids) == 0 && len(msg.Data.Asks) == 0 {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError, apperror.WithVenue("bitstamp"))
	}

	bids, err := parseLevels(truncate(msg.Data.Bids, book.Depth))
	if err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("bitstamp"), apperror.WithCause(err))
	}
	asks, err := parseLevels(truncate(msg.Data.Asks, book.Depth))
	if err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("bitstamp"), apperror.WithCause(err))
	}

	return book.NewOrderbook(book.VenueBitstamp, bids, asks), nil
}

func truncate(levels [][2]string, n int) [][2]string {
	if len(levels) <= n {
		return levels
	}
	return levels[:n]
}

func parseLevels(raw [][2]string) ([]book.Level, error) {
	levels := make([]book.Level, len(raw))
	for i, pair := range raw {
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", pair[0], err)
		}
		qty, err := decimal.NewFromString(pair[1])
		if err != nil {
			return nil, fmt.Errorf("quantity %q: %w", pair[1], err)
		}
		levels[i] = book.Level{Price: price, Quantity: qty}
	}
	return levels, nil
}
