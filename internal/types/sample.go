package types

import (
	"math"

	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
)

// TradeSample is the part of a trade the performance metrics need.
type TradeSample struct {
	Pnl         float64
	QuoteVolume float64
	// Timestamp in seconds.
	Timestamp int64
}

// ParseTradeSample extracts a metrics sample from a raw trade. Unlike
// ParseTrade it needs no id, but requires the realized PnL and the time.
// QuoteVolume is absolute: quoteQty, else price×qty, else 0.
func ParseTradeSample(raw RawTrade) (TradeSample, error) {
	pnl, err := requireFloat("realizedPnl", raw.RealizedPnl)
	if err != nil {
		return TradeSample{}, err
	}

	ms, err := raw.Time.Take()
	if err != nil {
		return TradeSample{}, errors.New(errors.ErrCodeDataIntegrity, "trade has no time")
	}

	quoteVolume, err := sampleQuoteVolume(raw)
	if err != nil {
		return TradeSample{}, err
	}

	return TradeSample{
		Pnl:         pnl,
		QuoteVolume: math.Abs(quoteVolume),
		Timestamp:   ms / 1000,
	}, nil
}

func sampleQuoteVolume(raw RawTrade) (float64, error) {
	quote, ok, err := parseDecimal("quoteQty", raw.QuoteQuantity)
	if err != nil {
		return 0, err
	}

	if ok {
		return quote.InexactFloat64(), nil
	}

	price, hasPrice, err := parseDecimal("price", raw.Price)
	if err != nil {
		return 0, err
	}

	qty, hasQty, err := parseDecimal("qty", raw.Quantity)
	if err != nil {
		return 0, err
	}

	if !hasPrice || !hasQty {
		return 0, nil
	}

	return price.Mul(qty).InexactFloat64(), nil
}
