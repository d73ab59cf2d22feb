package types

// MetricsSnapshot holds the performance figures over a trade window.
type MetricsSnapshot struct {
	TotalPnL        float64 `json:"totalPnL"`
	TotalPnLPercent float64 `json:"totalPnLPercent"`
	// WinRate is in percent, within [0, 100].
	WinRate     float64 `json:"winRate"`
	SharpeRatio float64 `json:"sharpeRatio"`
	// MaxDrawdown is in percent of the cumulative PnL peak and never positive.
	MaxDrawdown   float64 `json:"maxDrawdown"`
	AvgWin        float64 `json:"avgWin"`
	AvgLoss       float64 `json:"avgLoss"`
	ProfitFactor  float64 `json:"profitFactor"`
	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	RealizedPnL   float64 `json:"realizedPnL"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
	FlatTrades    int     `json:"flatTrades"`
}
