package types

import (
	"math"

	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
)

// PositionSide is the direction of a position or trade.
type PositionSide string

const (
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// RawPosition is one position risk record with the exchange's decimal strings.
type RawPosition struct {
	Symbol           string
	PositionAmt      string
	EntryPrice       string
	MarkPrice        string
	UnRealizedProfit string
	// PositionSide is the hedge-mode side (BOTH, LONG, SHORT), used only for the id.
	PositionSide string
}

// PositionSnapshot is a normalized position.
type PositionSnapshot struct {
	ID                   string       `json:"id"`
	Symbol               string       `json:"symbol"`
	Side                 PositionSide `json:"side"`
	EntryPrice           float64      `json:"entryPrice"`
	MarkPrice            float64      `json:"currentPrice"`
	Quantity             float64      `json:"quantity"`
	UnrealizedPnl        float64      `json:"unrealizedPnl"`
	UnrealizedPnlPercent float64      `json:"unrealizedPnlPercent"`
	Notional             float64      `json:"notional"`
	// RawSymbol keeps the exchange symbol (BTCUSDT) for ticker lookups.
	RawSymbol string `json:"-"`
}

// ParsePosition converts a RawPosition. Quantity is the absolute amount and
// the sign decides the side; a flat position has zero PnL and notional.
func ParsePosition(raw RawPosition) (PositionSnapshot, error) {
	if raw.Symbol == "" {
		return PositionSnapshot{}, errors.New(errors.ErrCodeDataIntegrity, "position has no symbol")
	}

	amount, err := requireFloat("positionAmt", raw.PositionAmt)
	if err != nil {
		return PositionSnapshot{}, err
	}

	entry, err := floatOr("entryPrice", raw.EntryPrice, 0)
	if err != nil {
		return PositionSnapshot{}, err
	}

	mark, err := floatOr("markPrice", raw.MarkPrice, entry)
	if err != nil {
		return PositionSnapshot{}, err
	}

	pnl, err := floatOr("unRealizedProfit", raw.UnRealizedProfit, 0)
	if err != nil {
		return PositionSnapshot{}, err
	}

	positionSide := raw.PositionSide
	if positionSide == "" {
		positionSide = "BOTH"
	}

	side := PositionSideLong
	direction := 1.0
	if amount < 0 {
		side = PositionSideShort
		direction = -1
	}

	quantity := math.Abs(amount)
	snapshot := PositionSnapshot{
		ID:                   raw.Symbol + "-" + positionSide,
		Symbol:               DisplaySymbol(raw.Symbol),
		Side:                 side,
		EntryPrice:           entry,
		MarkPrice:            mark,
		Quantity:             quantity,
		UnrealizedPnl:        0,
		UnrealizedPnlPercent: 0,
		Notional:             0,
		RawSymbol:            raw.Symbol,
	}

	if quantity == 0 {
		return snapshot, nil
	}

	snapshot.UnrealizedPnl = pnl
	snapshot.Notional = mark * quantity
	if entry != 0 {
		snapshot.UnrealizedPnlPercent = (mark - entry) * direction / entry * 100
	}

	return snapshot, nil
}

// IsOpen reports whether the position holds a non-zero quantity.
func (p PositionSnapshot) IsOpen() bool {
	return p.Quantity > 0
}
