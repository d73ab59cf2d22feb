package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, event Event) map[string]any {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, string(event.EventType()), out["type"])

	return out
}

func TestPriceUpdateEvent(t *testing.T) {
	out := decode(t, NewPriceUpdateEvent(QuoteEvent{Symbol: "BTCUSDT", Price: 101, Bid: 100, Ask: 102, Timestamp: 1_700_000_000_999}))

	assert.Equal(t, "price_update", out["type"])
	assert.Equal(t, "BTCUSDT", out["symbol"])
	assert.Equal(t, 101.0, out["price"])
	assert.Equal(t, 100.0, out["bid"])
	assert.Equal(t, 102.0, out["ask"])
	assert.Equal(t, 1_700_000_000.0, out["ts"])
}

func TestAccountSnapshotEvent(t *testing.T) {
	snapshot := AccountSnapshot{WalletBalance: 10, AvailableBalance: 5, MarginRatio: 1, Leverage: 2, PnL24h: 3, Timestamp: time.Unix(99, 0)}
	out := decode(t, NewAccountSnapshotEvent(snapshot))

	account, ok := out["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10.0, account["balance"])
	assert.Equal(t, 5.0, account["availableBalance"])
	assert.Equal(t, 3.0, account["pnl24h"])
	assert.NotContains(t, account, "Timestamp")
	assert.Equal(t, 99.0, out["ts"])
}

func TestEquitySnapshotEventIsFlat(t *testing.T) {
	out := decode(t, NewEquitySnapshotEvent(EquitySnapshot{Time: 5, Equity: 100, Balance: 90, UnrealizedPnl: 10}))

	assert.Equal(t, 5.0, out["time"])
	assert.Equal(t, 100.0, out["equity"])
	assert.Equal(t, 90.0, out["balance"])
	assert.Equal(t, 10.0, out["unrealizedPnl"])
}

func TestEventTypes(t *testing.T) {
	events := map[EventType]Event{
		EventTypeHeartbeat:       NewHeartbeatEvent(1),
		EventTypePositionUpdate:  NewPositionUpdateEvent(PositionSnapshot{ID: "BTCUSDT-BOTH"}),
		EventTypeMetricsSnapshot: NewMetricsSnapshotEvent(MetricsSnapshot{}, 1),
		EventTypeTickerSnapshot:  NewTickerSnapshotEvent([]TickerSummary{{Symbol: "BTC"}}, 1),
		EventTypeTradesSnapshot:  NewTradesSnapshotEvent([]TradeView{{ID: 1}}, 1),
		EventTypeTradeExecuted:   NewTradeExecutedEvent(TradeView{ID: 2}),
	}

	for eventType, event := range events {
		assert.Equal(t, eventType, event.EventType())
		decode(t, event)
	}
}
