// Package binance implements feed.Adapter for Binance's combined depth
// stream.
package binance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/orderbook-aggregator/internal/apperror"
	"github.com/fd1az/orderbook-aggregator/internal/book"
)

const endpoint = "wss://stream.binance.com:9443/stream"

// subscriptionID is the id Binance echoes back in its ack; the feed
// only ever opens one subscription per connection so it is constant.
const subscriptionID = 1

// Adapter implements feed.Adapter for Binance.
type Adapter struct{}

// New builds a Binance adapter.
func New() Adapter { return Adapter{} }

func (Adapter) Venue() book.Venue { return book.VenueBinance }
func (Adapter) Endpoint() string  { return endpoint }

func (Adapter) SubscriptionMessage(symbol string) string {
	req := struct {
		Method string   `json:"method"`
		Params []string `json:"params"`
		ID     int      `json:"id"`
	}{
		Method: "SUBSCRIBE",
		Params: []string{fmt.Sprintf("%s@depth%d@100ms", symbol, book.Depth)},
		ID:     subscriptionID,
	}
	data, _ := json.Marshal(req)
	return string(data)
}

// ackResponse mirrors Binance's subscription ack shape: {"result":null,"id":1}.
// Result is a raw message so "result" being present-but-null can be
// distinguished from the field being absent entirely.
type ackResponse struct {
	Result json.RawMessage `json:"result"`
	ID     *int            `json:"id"`
}

func (Adapter) IsSubscriptionAck(_, frame string) bool {
	var ack ackResponse
	if err := json.Unmarshal([]byte(frame), &ack); err != nil {
		return false
	}
	if ack.ID == nil {
		return false
	}
	return ack.Result != nil && string(ack.Result) == "null"
}

type depthFrame struct {
	Data struct {
		Bids [][2]string `json:"bids"`
		Asks [][2]string `json:"asks"`
	} `json:"data"`
}

func (Adapter) ParseBook(frame string) (book.Orderbook, error) {
	var msg depthFrame
	if err := json.Unmarshal([]byte(frame), &msg); err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("binance"), apperror.WithCause(err))
	}
	if len(msg.Data.Bids) == 0 && len(msg.Data.Asks) == 0 {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError, apperror.WithVenue("binance"))
	}

	bids, err := parseLevels(msg.Data.Bids)
	if err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("binance"), apperror.WithCause(err))
	}
	asks, err := parseLevels(msg.Data.Asks)
	if err != nil {
		return book.Orderbook{}, apperror.New(apperror.CodeParseError,
			apperror.WithVenue("binance"), apperror.WithCause(err))
	}

	return book.NewOrderbook(book.VenueBinance, bids, asks), nil
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
