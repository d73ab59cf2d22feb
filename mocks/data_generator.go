package mocks

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
)

// DataGenerator generates realistic account trades for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how trades are generated.
type GeneratorConfig struct {
	// Symbol is the futures symbol (e.g., "BTCUSDT")
	Symbol string
	// StartTime is the time of the first trade
	StartTime time.Time
	// Interval is the duration between trades
	Interval time.Duration
	// Count is the number of trades to generate
	Count int
	// FirstID is the id of the first trade; ids increase by one
	FirstID int64
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement between trades (0.001 = 0.1%)
	Volatility float64
	// Quantity is the average trade size in base asset
	Quantity float64
	// CloseRatio is the share of trades that close a position and carry realized PnL
	CloseRatio float64
	// CommissionRate is the fee charged on quote volume
	CommissionRate float64
	// MalformedRatio is the share of trades with a missing id or an unparsable field
	MalformedRatio float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "BTCUSDT",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          500,
		FirstID:        1000,
		InitialPrice:   65000.0,
		Volatility:     0.002, // 0.2% per trade
		Quantity:       0.01,
		CloseRatio:     0.5,
		CommissionRate: 0.0004,
		MalformedRatio: 0,
	}
}

// Generate creates a slice of raw trades in ascending id and time order.
// Prices follow a geometric Brownian motion; closing trades realize the
// price change since the previous trade on their quantity.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.RawTrade {
	trades := make([]types.RawTrade, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		previous := currentPrice

		// Using Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		currentPrice = previous * (1 + config.Volatility*z)
		if currentPrice <= 0 {
			currentPrice = previous * 0.99 // Prevent negative prices
		}

		quantity := config.Quantity * (0.5 + g.rng.Float64())
		quote := currentPrice * quantity
		side := "BUY"
		if g.rng.Float64() < 0.5 {
			side = "SELL"
		}

		realized := 0.0
		if g.rng.Float64() < config.CloseRatio {
			realized = (currentPrice - previous) * quantity
			if side == "SELL" {
				realized = -realized
			}
		}

		trades[i] = types.RawTrade{
			ID:            optional.Some(config.FirstID + int64(i)),
			Symbol:        config.Symbol,
			Side:          side,
			Price:         formatDecimal(currentPrice, 2),
			Quantity:      formatDecimal(quantity, 3),
			QuoteQuantity: formatDecimal(quote, 4),
			RealizedPnl:   formatDecimal(realized, 8),
			Commission:    formatDecimal(quote*config.CommissionRate, 8),
			Maker:         g.rng.Float64() < 0.3,
			Time:          optional.Some(currentTime.UnixMilli()),
		}

		if config.MalformedRatio > 0 && g.rng.Float64() < config.MalformedRatio {
			g.corrupt(&trades[i])
		}

		currentTime = currentTime.Add(config.Interval)
	}

	return trades
}

// corrupt breaks one required field of the trade.
func (g *DataGenerator) corrupt(trade *types.RawTrade) {
	switch g.rng.Intn(3) {
	case 0:
		trade.ID = optional.None[int64]()
	case 1:
		trade.Price = "not-a-number"
	default:
		trade.RealizedPnl = "NaN"
	}
}

// Generate500 is a convenience function to generate one trade fetch worth of
// trades with default settings.
func Generate500(symbol string) []types.RawTrade {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

// formatDecimal renders val the way the exchange does: a plain decimal string.
func formatDecimal(val float64, decimals int) string {
	return strconv.FormatFloat(roundToDecimals(val, decimals), 'f', -1, 64)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
