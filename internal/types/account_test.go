package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccount(t *testing.T) {
	t.Run("full overview", func(t *testing.T) {
		overview, err := ParseAccount(RawAccount{
			TotalWalletBalance:    "10000",
			TotalUnrealizedProfit: "50",
			TotalCrossUnPnl:       "40",
			TotalInitialMargin:    "2000",
			TotalMarginBalance:    "10050",
			AvailableBalance:      "8000",
		})
		require.NoError(t, err)

		assert.Equal(t, 10000.0, overview.WalletBalance)
		assert.Equal(t, 50.0, overview.UnrealizedProfit)
		assert.Equal(t, 8000.0, overview.AvailableBalance)
		assert.Equal(t, 10050.0, overview.Equity())
		assert.InDelta(t, 2000.0/10050.0*100, overview.MarginRatio(), 1e-9)
		assert.InDelta(t, 10050.0/2000.0, overview.Leverage(), 1e-9)
	})

	t.Run("fallbacks", func(t *testing.T) {
		overview, err := ParseAccount(RawAccount{
			TotalWalletBalance: "500",
			TotalCrossUnPnl:    "-20",
		})
		require.NoError(t, err)

		assert.Equal(t, -20.0, overview.UnrealizedProfit)
		assert.Equal(t, 500.0, overview.MarginBalance)
		assert.Equal(t, 0.0, overview.AvailableBalance)
		assert.Equal(t, 0.0, overview.Leverage())
		assert.Equal(t, 0.0, overview.MarginRatio())
	})

	t.Run("zero margin balance", func(t *testing.T) {
		overview, err := ParseAccount(RawAccount{TotalMarginBalance: "0", TotalInitialMargin: "10"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, overview.MarginRatio())
		assert.Equal(t, 0.0, overview.Leverage())
	})

	t.Run("unparsable wallet", func(t *testing.T) {
		_, err := ParseAccount(RawAccount{TotalWalletBalance: "n/a"})
		assert.Error(t, err)
	})
}

func TestNewAccountSnapshot(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	overview := AccountOverview{
		WalletBalance:    1000,
		AvailableBalance: 900,
		UnrealizedProfit: 10,
		InitialMargin:    100,
		MarginBalance:    1010,
	}

	snapshot := NewAccountSnapshot(overview, 12.5, now)
	assert.Equal(t, 1000.0, snapshot.WalletBalance)
	assert.Equal(t, 900.0, snapshot.AvailableBalance)
	assert.Equal(t, 12.5, snapshot.PnL24h)
	assert.InDelta(t, 100.0/1010.0*100, snapshot.MarginRatio, 1e-9)
	assert.InDelta(t, 10.1, snapshot.Leverage, 1e-9)
	assert.Equal(t, now, snapshot.Timestamp)
}
