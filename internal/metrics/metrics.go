// Package metrics computes trading performance figures over a window of
// account trades. Compute is pure: it performs no I/O and never fails, trades
// that cannot be read are left out.
package metrics

import (
	"math"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
)

// Default noise threshold parameters.
const (
	DefaultNoiseFloor = 0.05
	DefaultNoiseRatio = 0.0005
)

// NoiseThreshold decides which trades are too small to count as a win or a
// loss. A trade is flat when |pnl| < max(Floor, Ratio×quoteVolume).
type NoiseThreshold struct {
	Floor float64
	Ratio float64
}

// DefaultNoiseThreshold returns the threshold with the default parameters.
func DefaultNoiseThreshold() NoiseThreshold {
	return NoiseThreshold{Floor: DefaultNoiseFloor, Ratio: DefaultNoiseRatio}
}

// For returns the threshold for a trade of the given quote volume.
func (n NoiseThreshold) For(quoteVolume float64) float64 {
	return math.Max(n.Floor, n.Ratio*quoteVolume)
}

// Input is everything Compute looks at.
type Input struct {
	Trades          []types.RawTrade
	Equity          float64
	Baseline        optional.Option[float64]
	UnrealizedTotal float64
	Noise           NoiseThreshold
}

// Compute returns the metrics snapshot for in. TotalPnL is the delta between
// the current equity and the baseline; callers reporting account PnL
// override it with ApplyAccountPnL.
func Compute(in Input) types.MetricsSnapshot {
	samples := normalize(in.Trades)

	var (
		wins, losses []float64
		flat         int
	)

	for _, sample := range samples {
		if math.Abs(sample.Pnl) < in.Noise.For(sample.QuoteVolume) {
			flat++

			continue
		}

		switch {
		case sample.Pnl > 0:
			wins = append(wins, sample.Pnl)
		case sample.Pnl < 0:
			losses = append(losses, sample.Pnl)
		default:
			flat++
		}
	}

	winSum := sum(wins)
	lossSum := sum(losses)
	total := len(wins) + len(losses)

	snapshot := types.MetricsSnapshot{
		WinRate:       winRate(len(wins), total),
		SharpeRatio:   sharpe(samples),
		MaxDrawdown:   maxDrawdown(samples),
		AvgWin:        average(winSum, len(wins)),
		AvgLoss:       average(lossSum, len(losses)),
		ProfitFactor:  profitFactor(winSum, lossSum, len(wins)),
		TotalTrades:   total,
		WinningTrades: len(wins),
		LosingTrades:  len(losses),
		RealizedPnL:   winSum + lossSum,
		UnrealizedPnL: in.UnrealizedTotal,
		FlatTrades:    flat,
	}

	baseline := baselineOrEquity(in.Baseline, in.Equity)
	snapshot.TotalPnL = in.Equity - baseline
	snapshot.TotalPnLPercent = snapshot.TotalPnL / baseline * 100

	return finite(snapshot)
}

// AccountPnL is the account-level PnL reported by the account loop.
type AccountPnL struct {
	Realized24h   float64
	Unrealized    float64
	WalletBalance float64
	Equity        float64
}

// ApplyAccountPnL replaces the PnL fields of snapshot with the 24h realized
// plus unrealized figure, as a percent of the wallet balance before those 24h.
func ApplyAccountPnL(snapshot types.MetricsSnapshot, pnl AccountPnL) types.MetricsSnapshot {
	total := pnl.Realized24h + pnl.Unrealized

	reference := pnl.WalletBalance - pnl.Realized24h
	if reference <= 0 {
		reference = firstNonZero(pnl.WalletBalance, pnl.Equity, 1)
	}

	snapshot.RealizedPnL = pnl.Realized24h
	snapshot.UnrealizedPnL = pnl.Unrealized
	snapshot.TotalPnL = total
	snapshot.TotalPnLPercent = total / reference * 100

	return finite(snapshot)
}

// finite zeroes every figure that overflowed to ±Inf or NaN, which JSON cannot carry.
func finite(snapshot types.MetricsSnapshot) types.MetricsSnapshot {
	for _, v := range []*float64{
		&snapshot.TotalPnL,
		&snapshot.TotalPnLPercent,
		&snapshot.WinRate,
		&snapshot.SharpeRatio,
		&snapshot.MaxDrawdown,
		&snapshot.AvgWin,
		&snapshot.AvgLoss,
		&snapshot.ProfitFactor,
		&snapshot.RealizedPnL,
		&snapshot.UnrealizedPnL,
	} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}

	return snapshot
}

func normalize(trades []types.RawTrade) []types.TradeSample {
	samples := make([]types.TradeSample, 0, len(trades))

	for _, raw := range trades {
		sample, err := types.ParseTradeSample(raw)
		if err != nil {
			continue
		}

		samples = append(samples, sample)
	}

	return samples
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(wins) / float64(total) * 100
}

// sharpe is mean/pstdev of per-trade returns scaled by √n. Trades without
// quote volume have no return.
func sharpe(samples []types.TradeSample) float64 {
	returns := make([]float64, 0, len(samples))

	for _, sample := range samples {
		if sample.QuoteVolume > 0 {
			returns = append(returns, sample.Pnl/sample.QuoteVolume)
		}
	}

	n := len(returns)
	if n < 2 {
		return 0
	}

	mean := sum(returns) / float64(n)

	var squaredDiffSum float64
	for _, r := range returns {
		squaredDiffSum += (r - mean) * (r - mean)
	}

	stdDev := math.Sqrt(squaredDiffSum / float64(n))
	if stdDev <= 0 || math.IsNaN(stdDev) {
		return 0
	}

	return mean / stdDev * math.Sqrt(float64(n))
}

// profitFactor falls back to wins/max(wins×0.2, 1) when there are wins but no
// losses.
func profitFactor(winSum, lossSum float64, wins int) float64 {
	switch {
	case lossSum < 0:
		return winSum / math.Abs(lossSum)
	case wins > 0:
		return winSum / math.Max(winSum*0.2, 1)
	default:
		return 0
	}
}

// maxDrawdown walks the samples by time and reports the deepest fall of
// cumulative PnL below its running peak, as a percent of the final peak.
func maxDrawdown(samples []types.TradeSample) float64 {
	if len(samples) == 0 {
		return 0
	}

	ordered := slices.Clone(samples)
	slices.SortStableFunc(ordered, func(a, b types.TradeSample) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})

	var cumulative, peak, drawdown float64

	for _, sample := range ordered {
		cumulative += sample.Pnl
		peak = math.Max(peak, cumulative)
		drawdown = math.Min(drawdown, cumulative-peak)
	}

	if peak <= 0 {
		return 0
	}

	return drawdown / peak * 100
}

func baselineOrEquity(baseline optional.Option[float64], equity float64) float64 {
	if v, err := baseline.Take(); err == nil && v > 0 {
		return v
	}

	return firstNonZero(equity, 1)
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}

	return 0
}

func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}

	return total / float64(n)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}

	return total
}
