package types

import "time"

// RawAccount is the futures account overview with the exchange's decimal strings.
type RawAccount struct {
	TotalWalletBalance    string
	TotalUnrealizedProfit string
	TotalCrossUnPnl       string
	TotalInitialMargin    string
	TotalMarginBalance    string
	AvailableBalance      string
}

// AccountOverview is the parsed account overview.
type AccountOverview struct {
	WalletBalance    float64
	AvailableBalance float64
	UnrealizedProfit float64
	InitialMargin    float64
	MarginBalance    float64
}

// ParseAccount converts a RawAccount. Absent fields take their documented
// fallback; present but unparsable fields fail the whole overview.
func ParseAccount(raw RawAccount) (AccountOverview, error) {
	wallet, err := floatOr("totalWalletBalance", raw.TotalWalletBalance, 0)
	if err != nil {
		return AccountOverview{}, err
	}

	available, err := floatOr("availableBalance", raw.AvailableBalance, 0)
	if err != nil {
		return AccountOverview{}, err
	}

	crossUnPnl, err := floatOr("totalCrossUnPnl", raw.TotalCrossUnPnl, 0)
	if err != nil {
		return AccountOverview{}, err
	}

	unrealized, err := floatOr("totalUnrealizedProfit", raw.TotalUnrealizedProfit, crossUnPnl)
	if err != nil {
		return AccountOverview{}, err
	}

	initialMargin, err := floatOr("totalInitialMargin", raw.TotalInitialMargin, 0)
	if err != nil {
		return AccountOverview{}, err
	}

	marginBalance, err := floatOr("totalMarginBalance", raw.TotalMarginBalance, wallet)
	if err != nil {
		return AccountOverview{}, err
	}

	return AccountOverview{
		WalletBalance:    wallet,
		AvailableBalance: available,
		UnrealizedProfit: unrealized,
		InitialMargin:    initialMargin,
		MarginBalance:    marginBalance,
	}, nil
}

// Equity is wallet balance plus unrealized profit.
func (a AccountOverview) Equity() float64 {
	return a.WalletBalance + a.UnrealizedProfit
}

// MarginRatio is initial margin over margin balance in percent, 0 without margin balance.
func (a AccountOverview) MarginRatio() float64 {
	if a.MarginBalance == 0 {
		return 0
	}

	return a.InitialMargin / a.MarginBalance * 100
}

// Leverage is margin balance over initial margin, 0 without initial margin.
func (a AccountOverview) Leverage() float64 {
	if a.InitialMargin == 0 {
		return 0
	}

	return a.MarginBalance / a.InitialMargin
}

// AccountSnapshot is the account state published every account tick.
type AccountSnapshot struct {
	WalletBalance    float64   `json:"balance"`
	AvailableBalance float64   `json:"availableBalance"`
	MarginRatio      float64   `json:"marginRatio"`
	Leverage         float64   `json:"leverage"`
	PnL24h           float64   `json:"pnl24h"`
	Timestamp        time.Time `json:"-"`
}

// NewAccountSnapshot derives the published snapshot from an overview.
func NewAccountSnapshot(overview AccountOverview, pnl24h float64, now time.Time) AccountSnapshot {
	return AccountSnapshot{
		WalletBalance:    overview.WalletBalance,
		AvailableBalance: overview.AvailableBalance,
		MarginRatio:      overview.MarginRatio(),
		Leverage:         overview.Leverage(),
		PnL24h:           pnl24h,
		Timestamp:        now,
	}
}

// EquitySnapshot is one point of the equity curve.
type EquitySnapshot struct {
	Time          int64   `json:"time"`
	Equity        float64 `json:"equity"`
	Balance       float64 `json:"balance"`
	UnrealizedPnl float64 `json:"unrealizedPnl"`
}
