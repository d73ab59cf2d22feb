package types

import (
	"time"

	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
)

// RawQuote is a best bid/ask update as delivered by the upstream feed.
type RawQuote struct {
	Symbol          string
	BestBidPrice    string
	BestAskPrice    string
	EventTime       int64
	TransactionTime int64
}

// QuoteEvent is a normalized top-of-book quote.
type QuoteEvent struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	// Timestamp in milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// ParseQuote validates a raw quote. Symbol, bid and ask are required; the
// timestamp falls back from event time to transaction time to now.
func ParseQuote(raw RawQuote, now time.Time) (QuoteEvent, error) {
	if raw.Symbol == "" {
		return QuoteEvent{}, errors.New(errors.ErrCodeMalformedMessage, "quote has no symbol")
	}

	bid, err := requireFloat("bid", raw.BestBidPrice)
	if err != nil {
		return QuoteEvent{}, errors.Wrap(errors.ErrCodeMalformedMessage, "invalid quote", err)
	}

	ask, err := requireFloat("ask", raw.BestAskPrice)
	if err != nil {
		return QuoteEvent{}, errors.Wrap(errors.ErrCodeMalformedMessage, "invalid quote", err)
	}

	ts := raw.EventTime
	if ts == 0 {
		ts = raw.TransactionTime
	}

	if ts == 0 {
		ts = now.UnixMilli()
	}

	return QuoteEvent{
		Symbol:    raw.Symbol,
		Price:     (bid + ask) / 2,
		Bid:       bid,
		Ask:       ask,
		Timestamp: ts,
	}, nil
}
