package feed

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/fd1az/orderbook-aggregator/internal/apperror"
	"github.com/fd1az/orderbook-aggregator/internal/book"
)

// subscriptionTimeout bounds how long Connect waits for each frame
// while awaiting an ack (the wait restarts on every frame), and
// subscriptionMaxNoAck is how many non-ack text frames it tolerates
// before giving up.
const (
	subscriptionTimeout  = 15 * time.Second
	subscriptionMaxNoAck = 10
)

// Session owns a single WebSocket connection for one venue and
// produces a finite sequence of Orderbook values terminated by a
// typed error. It is strictly single-use: once NextBook returns an
// error the Session is done, and reconnecting is the Supervisor's job.
type Session struct {
	conn    *websocket.Conn
	adapter Adapter
	venue   string
	log     zerolog.Logger
}

// Connect dials adapter's endpoint, sends its subscription message for
// symbol, and waits for an acknowledgement. Ping/pong frames are
// handled transparently by the transport; a close frame or EOF before
// an ack is UnexpectedClose, a non-ack text frame ten times running is
// NoAck, and 15 seconds with no frame at all is Timeout.
func Connect(ctx context.Context, adapter Adapter, symbol string, log zerolog.Logger) (*Session, error) {
	venue := adapter.Venue().String()

	conn, _, err := websocket.Dial(ctx, adapter.Endpoint(), nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeTransportError,
			apperror.WithVenue(venue), apperror.WithCause(err))
	}

	sub := adapter.SubscriptionMessage(symbol)
	if err := conn.Write(ctx, websocket.MessageText, []byte(sub)); err != nil {
		conn.Close(websocket.StatusAbnormalClosure, "subscribe write failed")
		return nil, apperror.New(apperror.CodeTransportError,
			apperror.WithVenue(venue), apperror.WithCause(err))
	}

	session := &Session{conn: conn, adapter: adapter, venue: venue, log: log}

	misses := 0
	for misses < subscriptionMaxNoAck {
		frameCtx, cancel := context.WithTimeout(ctx, subscriptionTimeout)
		msgType, data, err := conn.Read(frameCtx)
		cancel()

		if err != nil {
			classified := session.classifyReadError(err)
			conn.Close(websocket.StatusAbnormalClosure, "subscribe failed")
			return nil, classified
		}

		if msgType == websocket.MessageBinary {
			log.Debug().Str("venue", venue).Msg("ignoring binary frame during subscription")
			continue
		}

		frame := string(data)
		if adapter.IsSubscriptionAck(symbol, frame) {
			log.Info().Str("venue", venue).Msg("subscribed")
			return session, nil
		}
		misses++
	}

	conn.Close(websocket.StatusNormalClosure, "no subscription ack")
	return nil, apperror.New(apperror.CodeNoAck, apperror.WithVenue(venue))
}

// NextBook blocks until the next book frame arrives, parses it with
// the adapter, and returns it. Parse errors are logged and do not end
// the session; only a transport failure or a close frame does.
func (s *Session) NextBook(ctx context.Context) (book.Orderbook, error) {
	for {
		msgType, data, err := s.conn.Read(ctx)
		if err != nil {
			return book.Orderbook{}, s.classifyReadError(err)
		}

		if msgType == websocket.MessageBinary {
			s.log.Debug().Str("venue", s.venue).Msg("ignoring binary frame")
			continue
		}

		ob, err := s.adapter.ParseBook(string(data))
		if err != nil {
			s.log.Info().Str("venue", s.venue).Err(err).Msg("discarding unparseable frame")
			continue
		}
		return ob, nil
	}
}

// Close releases the underlying connection. Safe to call after an
// error has already terminated the session.
func (s *Session) Close() {
	s.conn.Close(websocket.StatusNormalClosure, "session closed")
}

func (s *Session) classifyReadError(err error) *apperror.AppError {
	if websocket.CloseStatus(err) != -1 || errors.Is(err, io.EOF) {
		return apperror.New(apperror.CodeUnexpectedClose,
			apperror.WithVenue(s.venue), apperror.WithCause(err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.New(apperror.CodeTimeout, apperror.WithVenue(s.venue), apperror.WithCause(err))
	}
	return apperror.New(apperror.CodeTransportError, apperror.WithVenue(s.venue), apperror.WithCause(err))
}
