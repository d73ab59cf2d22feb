// Package stream maintains the reconnecting upstream quote subscription.
package stream

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"go.uber.org/zap"
)

// DefaultReconnectDelay is the fixed wait between reconnect attempts.
const DefaultReconnectDelay = 3 * time.Second

const eventBufferSize = 64

// BookTickerStream produces normalized quotes for one symbol and reconnects forever.
type BookTickerStream struct {
	ws             WebSocketService
	symbol         string
	reconnectDelay time.Duration
	log            *logger.Logger
	diag           *diagnostics.Recorder
	now            func() time.Time

	stopOnce sync.Once
	stopC    chan struct{}
}

// NewBookTickerStream creates a stream for symbol. A non-positive delay uses DefaultReconnectDelay.
func NewBookTickerStream(
	ws WebSocketService,
	symbol string,
	reconnectDelay time.Duration,
	log *logger.Logger,
	diag *diagnostics.Recorder,
) *BookTickerStream {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}

	return &BookTickerStream{
		ws:             ws,
		symbol:         strings.ToLower(symbol),
		reconnectDelay: reconnectDelay,
		log:            log.Named("stream"),
		diag:           diag,
		now:            time.Now,
		stopOnce:       sync.Once{},
		stopC:          make(chan struct{}),
	}
}

// Run returns a lazy, infinite sequence of quotes. Each call opens a fresh
// subscription. Errors in the sequence are TransportFailure notifications and
// are always followed by a reconnect after the fixed delay. The sequence ends
// when ctx is done, Stop is called or the consumer stops iterating.
func (s *BookTickerStream) Run(ctx context.Context) iter.Seq2[types.QuoteEvent, error] {
	return func(yield func(types.QuoteEvent, error) bool) {
		for attempt := 0; ; attempt++ {
			if attempt > 0 {
				if !s.sleep(ctx) {
					return
				}

				s.diag.StreamReconnect()
				s.log.Info("Reconnecting book ticker stream",
					zap.String("symbol", s.symbol),
					zap.Int("attempt", attempt),
				)
			}

			if s.done(ctx) {
				return
			}

			if !s.serve(ctx, yield) {
				return
			}
		}
	}
}

// Stop ends every running sequence. It is safe to call more than once.
func (s *BookTickerStream) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopC)
	})
}

// serve runs one connection. It returns false when the sequence must end.
func (s *BookTickerStream) serve(ctx context.Context, yield func(types.QuoteEvent, error) bool) bool {
	events := make(chan types.RawQuote, eventBufferSize)
	quit := make(chan struct{})
	defer close(quit)

	var (
		lastErrMu sync.Mutex
		lastErr   error
	)

	handler := func(event *BookTickerEvent) {
		if event == nil {
			return
		}

		raw := types.RawQuote{
			Symbol:          event.Symbol,
			BestBidPrice:    event.BestBidPrice,
			BestAskPrice:    event.BestAskPrice,
			EventTime:       event.Time,
			TransactionTime: event.TransactionTime,
		}

		select {
		case events <- raw:
		case <-quit:
		}
	}

	errHandler := func(err error) {
		if isDecodeError(err) {
			s.diag.MalformedMessage()
			s.log.Debug("Dropped undecodable book ticker message", zap.Error(err))

			return
		}

		lastErrMu.Lock()
		lastErr = err
		lastErrMu.Unlock()
	}

	doneC, stopC, err := s.ws.WsBookTickerServe(s.symbol, handler, errHandler)
	if err != nil {
		s.log.Warn("Book ticker connection failed", zap.String("symbol", s.symbol), zap.Error(err))

		return yield(types.QuoteEvent{}, errors.Wrap(errors.ErrCodeTransportFailure, "book ticker connection failed", err))
	}

	defer close(stopC)

	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.stopC:
			return false
		case raw := <-events:
			if !s.emit(ctx, raw, yield) {
				return false
			}
		case <-doneC:
			// deliver what the connection read before it ended
			for drained := false; !drained; {
				select {
				case raw := <-events:
					if !s.emit(ctx, raw, yield) {
						return false
					}
				default:
					drained = true
				}
			}

			lastErrMu.Lock()
			cause := lastErr
			lastErrMu.Unlock()

			if cause == nil {
				cause = stderrors.New("connection closed")
			}

			s.log.Warn("Book ticker stream disconnected", zap.String("symbol", s.symbol), zap.Error(cause))

			return yield(types.QuoteEvent{}, errors.Wrap(errors.ErrCodeTransportFailure, "book ticker stream disconnected", cause))
		}
	}
}

// emit parses and yields one message. Malformed messages are dropped and
// counted; it returns false when the stream is done or the consumer stops iterating.
func (s *BookTickerStream) emit(ctx context.Context, raw types.RawQuote, yield func(types.QuoteEvent, error) bool) bool {
	if s.done(ctx) {
		return false
	}

	quote, err := types.ParseQuote(raw, s.now())
	if err != nil {
		s.diag.MalformedMessage()
		s.log.Debug("Dropped malformed book ticker message", zap.Error(err))

		return true
	}

	return yield(quote, nil)
}

// sleep waits the reconnect delay. It returns false if the stream was stopped meanwhile.
func (s *BookTickerStream) sleep(ctx context.Context) bool {
	timer := time.NewTimer(s.reconnectDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-s.stopC:
		return false
	case <-timer.C:
		return true
	}
}

func (s *BookTickerStream) done(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-s.stopC:
		return true
	default:
		return false
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr)
}
