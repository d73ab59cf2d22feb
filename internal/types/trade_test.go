package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawTrade(id int64) RawTrade {
	return RawTrade{
		ID:            optional.Some(id),
		Symbol:        "BTCUSDT",
		Side:          "BUY",
		Price:         "100",
		Quantity:      "2",
		QuoteQuantity: "200",
		RealizedPnl:   "10",
		Commission:    "0.08",
		Maker:         true,
		Time:          optional.Some(int64(1_700_000_000_500)),
	}
}

func TestParseTrade(t *testing.T) {
	now := time.Unix(1_800_000_000, 0)

	t.Run("valid trade", func(t *testing.T) {
		trade, err := ParseTrade(rawTrade(7), now)
		require.NoError(t, err)

		assert.Equal(t, int64(7), trade.ID)
		assert.Equal(t, PositionSideLong, trade.Side)
		assert.Equal(t, 200.0, trade.QuoteVolume)
		assert.Equal(t, 10.0, trade.RealizedPnl)
		assert.Equal(t, 0.08, trade.Commission)
		assert.Equal(t, time.UnixMilli(1_700_000_000_500), trade.Timestamp)
	})

	t.Run("sell is short", func(t *testing.T) {
		raw := rawTrade(1)
		raw.Side = "SELL"

		trade, err := ParseTrade(raw, now)
		require.NoError(t, err)
		assert.Equal(t, PositionSideShort, trade.Side)
	})

	t.Run("side is case insensitive", func(t *testing.T) {
		for side, want := range map[string]PositionSide{
			"buy":  PositionSideLong,
			"Buy":  PositionSideLong,
			"sell": PositionSideShort,
		} {
			raw := rawTrade(1)
			raw.Side = side

			trade, err := ParseTrade(raw, now)
			require.NoError(t, err)
			assert.Equal(t, want, trade.Side, side)
		}
	})

	t.Run("quote volume falls back to price times quantity", func(t *testing.T) {
		raw := rawTrade(1)
		raw.QuoteQuantity = ""
		raw.Price = "2.5"
		raw.Quantity = "4"

		trade, err := ParseTrade(raw, now)
		require.NoError(t, err)
		assert.Equal(t, 10.0, trade.QuoteVolume)
	})

	t.Run("missing time falls back to now", func(t *testing.T) {
		raw := rawTrade(1)
		raw.Time = optional.None[int64]()

		trade, err := ParseTrade(raw, now)
		require.NoError(t, err)
		assert.Equal(t, now, trade.Timestamp)
	})

	invalid := map[string]func(r *RawTrade){
		"missing id":          func(r *RawTrade) { r.ID = optional.None[int64]() },
		"missing price":       func(r *RawTrade) { r.Price = "" },
		"unparsable quantity": func(r *RawTrade) { r.Quantity = "x" },
		"unparsable pnl":      func(r *RawTrade) { r.RealizedPnl = "Infinity" },
		"unparsable quote":    func(r *RawTrade) { r.QuoteQuantity = "--1" },
	}

	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			raw := rawTrade(1)
			mutate(&raw)

			_, err := ParseTrade(raw, now)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeDataIntegrity))
		})
	}
}

func TestTradeView(t *testing.T) {
	trade, err := ParseTrade(rawTrade(42), time.Now())
	require.NoError(t, err)

	view := trade.View()
	assert.Equal(t, int64(42), view.ID)
	assert.Equal(t, "maker", view.Model)
	assert.Equal(t, PositionSideLong, view.Side)
	assert.Equal(t, "BTC", view.Symbol)
	assert.Equal(t, 100.0, view.EntryPrice)
	assert.Equal(t, 100.0, view.ExitPrice)
	assert.Equal(t, "2023-11-14T22:13:20Z", view.EntryTime)
	assert.Equal(t, view.EntryTime, view.ExitTime)
	assert.Equal(t, "0s", view.HoldingTime)
	assert.Equal(t, "200.00 USDT", view.Notional)
	assert.InDelta(t, 5.0, view.PnlPercent, 1e-9)
	assert.Equal(t, 0.08, view.Commission)
}

func TestTradeViewZeroNotional(t *testing.T) {
	trade := TradeRecord{ID: 1, Symbol: "ETHUSDT", Side: PositionSideShort, RealizedPnl: 3, Timestamp: time.Unix(0, 0)}

	view := trade.View()
	assert.Equal(t, "taker", view.Model)
	assert.Equal(t, 0.0, view.PnlPercent)
	assert.Equal(t, "0.00 USDT", view.Notional)
	assert.Equal(t, "1970-01-01T00:00:00Z", view.EntryTime)
}
