package stream

import (
	"github.com/adshao/go-binance/v2/futures"
)

// BookTickerEvent mirrors the fields of a futures bookTicker message that the stream reads.
type BookTickerEvent struct {
	UpdateID        int64
	Time            int64
	TransactionTime int64
	Symbol          string
	BestBidPrice    string
	BestBidQty      string
	BestAskPrice    string
	BestAskQty      string
}

// WsBookTickerHandler receives one decoded bookTicker message.
type WsBookTickerHandler func(event *BookTickerEvent)

// WsErrorHandler receives decode and transport errors of a connection.
type WsErrorHandler func(err error)

// WebSocketService abstracts the bookTicker subscription for testing.
// doneC is closed when the connection ends; closing stopC ends it.
type WebSocketService interface {
	WsBookTickerServe(symbol string, handler WsBookTickerHandler, errHandler WsErrorHandler) (doneC, stopC chan struct{}, err error)
}

// binanceWebSocketService is the real futures WebSocket implementation.
type binanceWebSocketService struct{}

// NewBinanceWebSocketService returns the futures bookTicker subscription.
// Set futures.UseTestnet before the first call to target the testnet.
func NewBinanceWebSocketService() WebSocketService {
	return binanceWebSocketService{}
}

func (binanceWebSocketService) WsBookTickerServe(
	symbol string,
	handler WsBookTickerHandler,
	errHandler WsErrorHandler,
) (chan struct{}, chan struct{}, error) {
	return futures.WsBookTickerServe(symbol, func(event *futures.WsBookTickerEvent) {
		handler(&BookTickerEvent{
			UpdateID:        event.UpdateID,
			Time:            event.Time,
			TransactionTime: event.TransactionTime,
			Symbol:          event.Symbol,
			BestBidPrice:    event.BestBidPrice,
			BestBidQty:      event.BestBidQty,
			BestAskPrice:    event.BestAskPrice,
			BestAskQty:      event.BestAskQty,
		})
	}, func(err error) {
		errHandler(err)
	})
}
