package types

// EventType discriminates the downstream event envelopes.
type EventType string

const (
	EventTypePriceUpdate     EventType = "price_update"
	EventTypeHeartbeat       EventType = "heartbeat"
	EventTypeAccountSnapshot EventType = "account_snapshot"
	EventTypePositionUpdate  EventType = "position_update"
	EventTypeEquitySnapshot  EventType = "equity_snapshot"
	EventTypeMetricsSnapshot EventType = "metrics_snapshot"
	EventTypeTickerSnapshot  EventType = "ticker_snapshot"
	EventTypeTradesSnapshot  EventType = "trades_snapshot"
	EventTypeTradeExecuted   EventType = "trade_executed"
)

// Event is anything the hub can broadcast. Implementations marshal to a JSON
// object carrying a "type" field equal to EventType().
type Event interface {
	EventType() EventType
}

// Envelope carries the type discriminator of every event.
type Envelope struct {
	Type EventType `json:"type"`
}

func (e Envelope) EventType() EventType {
	return e.Type
}

type PriceUpdateEvent struct {
	Envelope
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	// Ts in seconds.
	Ts int64 `json:"ts"`
}

func NewPriceUpdateEvent(q QuoteEvent) PriceUpdateEvent {
	return PriceUpdateEvent{
		Envelope: Envelope{Type: EventTypePriceUpdate},
		Symbol:   q.Symbol,
		Price:    q.Price,
		Bid:      q.Bid,
		Ask:      q.Ask,
		Ts:       q.Timestamp / 1000,
	}
}

type HeartbeatEvent struct {
	Envelope
	Ts int64 `json:"ts"`
}

func NewHeartbeatEvent(ts int64) HeartbeatEvent {
	return HeartbeatEvent{Envelope: Envelope{Type: EventTypeHeartbeat}, Ts: ts}
}

type AccountSnapshotEvent struct {
	Envelope
	Account AccountSnapshot `json:"account"`
	Ts      int64           `json:"ts"`
}

func NewAccountSnapshotEvent(account AccountSnapshot) AccountSnapshotEvent {
	return AccountSnapshotEvent{
		Envelope: Envelope{Type: EventTypeAccountSnapshot},
		Account:  account,
		Ts:       account.Timestamp.Unix(),
	}
}

type PositionUpdateEvent struct {
	Envelope
	Position PositionSnapshot `json:"position"`
}

func NewPositionUpdateEvent(position PositionSnapshot) PositionUpdateEvent {
	return PositionUpdateEvent{Envelope: Envelope{Type: EventTypePositionUpdate}, Position: position}
}

type EquitySnapshotEvent struct {
	Envelope
	EquitySnapshot
}

func NewEquitySnapshotEvent(snapshot EquitySnapshot) EquitySnapshotEvent {
	return EquitySnapshotEvent{Envelope: Envelope{Type: EventTypeEquitySnapshot}, EquitySnapshot: snapshot}
}

type MetricsSnapshotEvent struct {
	Envelope
	Metrics MetricsSnapshot `json:"metrics"`
	Ts      int64           `json:"ts"`
}

func NewMetricsSnapshotEvent(metrics MetricsSnapshot, ts int64) MetricsSnapshotEvent {
	return MetricsSnapshotEvent{Envelope: Envelope{Type: EventTypeMetricsSnapshot}, Metrics: metrics, Ts: ts}
}

type TickerSnapshotEvent struct {
	Envelope
	Tickers []TickerSummary `json:"tickers"`
	Ts      int64           `json:"ts"`
}

func NewTickerSnapshotEvent(tickers []TickerSummary, ts int64) TickerSnapshotEvent {
	return TickerSnapshotEvent{Envelope: Envelope{Type: EventTypeTickerSnapshot}, Tickers: tickers, Ts: ts}
}

type TradesSnapshotEvent struct {
	Envelope
	// Trades are ordered newest first.
	Trades []TradeView `json:"trades"`
	Ts     int64       `json:"ts"`
}

func NewTradesSnapshotEvent(trades []TradeView, ts int64) TradesSnapshotEvent {
	return TradesSnapshotEvent{Envelope: Envelope{Type: EventTypeTradesSnapshot}, Trades: trades, Ts: ts}
}

type TradeExecutedEvent struct {
	Envelope
	Trade TradeView `json:"trade"`
}

func NewTradeExecutedEvent(trade TradeView) TradeExecutedEvent {
	return TradeExecutedEvent{Envelope: Envelope{Type: EventTypeTradeExecuted}, Trade: trade}
}
