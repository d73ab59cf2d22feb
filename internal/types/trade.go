package types

import (
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"github.com/shopspring/decimal"
)

// RawTrade is one account trade as returned by the exchange. Identity and
// time may be absent; numeric fields keep the exchange's decimal strings.
type RawTrade struct {
	ID            optional.Option[int64]
	Symbol        string
	Side          string
	Price         string
	Quantity      string
	QuoteQuantity string
	RealizedPnl   string
	Commission    string
	Maker         bool
	// Time in milliseconds.
	Time optional.Option[int64]
}

// TradeRecord is a validated account trade.
type TradeRecord struct {
	ID          int64
	Symbol      string
	Side        PositionSide
	Quantity    float64
	Price       float64
	QuoteVolume float64
	RealizedPnl float64
	Commission  float64
	Maker       bool
	Timestamp   time.Time
}

// ParseTrade validates a raw trade. A missing id or an unparsable price,
// quantity or PnL is a DataIntegrity error for this record only. A missing
// time falls back to now.
func ParseTrade(raw RawTrade, now time.Time) (TradeRecord, error) {
	id, err := raw.ID.Take()
	if err != nil {
		return TradeRecord{}, errors.New(errors.ErrCodeDataIntegrity, "trade has no id")
	}

	price, err := requireFloat("price", raw.Price)
	if err != nil {
		return TradeRecord{}, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "trade %d", id)
	}

	quantity, err := requireFloat("qty", raw.Quantity)
	if err != nil {
		return TradeRecord{}, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "trade %d", id)
	}

	quoteVolume, err := floatOr("quoteQty", raw.QuoteQuantity, price*quantity)
	if err != nil {
		return TradeRecord{}, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "trade %d", id)
	}

	realizedPnl, err := floatOr("realizedPnl", raw.RealizedPnl, 0)
	if err != nil {
		return TradeRecord{}, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "trade %d", id)
	}

	commission, err := floatOr("commission", raw.Commission, 0)
	if err != nil {
		return TradeRecord{}, errors.Wrapf(errors.ErrCodeDataIntegrity, err, "trade %d", id)
	}

	side := PositionSideShort
	if raw.Side == "" || strings.EqualFold(raw.Side, "BUY") {
		side = PositionSideLong
	}

	timestamp := now
	if ms, err := raw.Time.Take(); err == nil {
		timestamp = time.UnixMilli(ms)
	}

	return TradeRecord{
		ID:          id,
		Symbol:      raw.Symbol,
		Side:        side,
		Quantity:    quantity,
		Price:       price,
		QuoteVolume: quoteVolume,
		RealizedPnl: realizedPnl,
		Commission:  commission,
		Maker:       raw.Maker,
		Timestamp:   timestamp,
	}, nil
}

// TradeView is the downstream representation of a trade.
type TradeView struct {
	ID          int64        `json:"id"`
	Model       string       `json:"model"`
	Side        PositionSide `json:"side"`
	Symbol      string       `json:"symbol"`
	EntryPrice  float64      `json:"entryPrice"`
	ExitPrice   float64      `json:"exitPrice"`
	Quantity    float64      `json:"quantity"`
	EntryTime   string       `json:"entryTime"`
	ExitTime    string       `json:"exitTime"`
	HoldingTime string       `json:"holdingTime"`
	Notional    string       `json:"notional"`
	PnlNet      float64      `json:"pnlNet"`
	PnlPercent  float64      `json:"pnlPercent"`
	Commission  float64      `json:"commission"`
}

// View formats the trade for observers. Fills are instantaneous, so entry and
// exit carry the same price and time.
func (t TradeRecord) View() TradeView {
	model := "taker"
	if t.Maker {
		model = "maker"
	}

	pnlPercent := 0.0
	if t.QuoteVolume != 0 {
		pnlPercent = t.RealizedPnl / t.QuoteVolume * 100
	}

	executedAt := t.Timestamp.UTC().Truncate(time.Second).Format(time.RFC3339)

	return TradeView{
		ID:          t.ID,
		Model:       model,
		Side:        t.Side,
		Symbol:      DisplaySymbol(t.Symbol),
		EntryPrice:  t.Price,
		ExitPrice:   t.Price,
		Quantity:    t.Quantity,
		EntryTime:   executedAt,
		ExitTime:    executedAt,
		HoldingTime: "0s",
		Notional:    decimal.NewFromFloat(t.QuoteVolume).StringFixed(2) + " USDT",
		PnlNet:      t.RealizedPnl,
		PnlPercent:  pnlPercent,
		Commission:  t.Commission,
	}
}
