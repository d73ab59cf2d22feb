package types

import "github.com/rxtech-lab/argo-dashboard/pkg/errors"

// RawTicker is a 24h rolling price change statistic.
type RawTicker struct {
	Symbol             string
	LastPrice          string
	PriceChangePercent string
}

// TickerSummary is the downstream ticker entry.
type TickerSummary struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// ParseTicker converts a RawTicker; the symbol is shown without its USDT suffix.
func ParseTicker(raw RawTicker) (TickerSummary, error) {
	if raw.Symbol == "" {
		return TickerSummary{}, errors.New(errors.ErrCodeDataIntegrity, "ticker has no symbol")
	}

	price, err := floatOr("lastPrice", raw.LastPrice, 0)
	if err != nil {
		return TickerSummary{}, err
	}

	change, err := floatOr("priceChangePercent", raw.PriceChangePercent, 0)
	if err != nil {
		return TickerSummary{}, err
	}

	return TickerSummary{
		Symbol:    DisplaySymbol(raw.Symbol),
		Price:     price,
		Change24h: change,
	}, nil
}
