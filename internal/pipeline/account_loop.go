package pipeline

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/exchange"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/metrics"
	"github.com/rxtech-lab/argo-dashboard/internal/session"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pnlWindow is the trailing window of the income based PnL figure.
const pnlWindow = 24 * time.Hour

// AccountLoop polls the account overview and positions and publishes the
// account, position, equity, metrics and ticker events.
type AccountLoop struct {
	client  exchange.Client
	session *session.Session
	symbol  string
	loops   config.LoopsConfig
	noise   metrics.NoiseThreshold
	clock   Clock
	log     *logger.Logger
	diag    *diagnostics.Recorder

	lastIncome  time.Time
	lastMetrics time.Time
	lastTicker  time.Time
	pnl24h      decimal.Decimal
}

// NewAccountLoop creates the loop. A nil client makes Run a no-op.
func NewAccountLoop(
	client exchange.Client,
	sess *session.Session,
	cfg config.Config,
	log *logger.Logger,
	diag *diagnostics.Recorder,
) *AccountLoop {
	return &AccountLoop{
		client:  client,
		session: sess,
		symbol:  strings.ToUpper(cfg.Symbol),
		loops:   cfg.Loops,
		noise:   metrics.NoiseThreshold{Floor: cfg.Metrics.NoiseFloor, Ratio: cfg.Metrics.NoiseRatio},
		clock:   time.Now,
		log:     log.Named("account_loop"),
		diag:    diag,
		pnl24h:  decimal.Zero,
	}
}

// Run polls until ctx is cancelled. Without credentials it logs once and returns.
func (l *AccountLoop) Run(ctx context.Context) error {
	if l.client == nil {
		l.log.Warn("Binance API credentials absent; account snapshots disabled")

		return nil
	}

	l.log.Info("Account loop started",
		zap.String("symbol", l.symbol),
		zap.Duration("interval", l.loops.AccountInterval),
	)

	return every(ctx, l.loops.AccountInterval, l.clock, func(ctx context.Context, now time.Time) {
		if err := l.Tick(ctx, now); err != nil {
			logFailure(l.log, "Account polling failed", err)
		}
	})
}

// Tick runs one account poll. A failed account or positions fetch skips the
// whole tick and is returned; every other failure is logged and skipped.
func (l *AccountLoop) Tick(ctx context.Context, now time.Time) error {
	rawAccount, err := l.client.GetAccount(ctx)
	if err != nil {
		l.diag.UpstreamError(exchange.EndpointAccount)

		return err
	}

	rawPositions, err := l.client.GetPositions(ctx)
	if err != nil {
		l.diag.UpstreamError(exchange.EndpointPositions)

		return err
	}

	account, err := types.ParseAccount(rawAccount)
	if err != nil {
		l.diag.SkippedRecord("account")

		return err
	}

	if due(l.lastIncome, now, l.loops.IncomeInterval) {
		l.lastIncome = now
		l.refreshIncome(ctx, now)
	}

	pnl24h := l.pnl24h.InexactFloat64()
	equity := account.Equity()

	if l.session.Baseline.TrySet(equity) {
		l.log.Info("Baseline equity captured", zap.Float64("equity", equity))
	}

	publish(ctx, l.session.Hub, l.log, types.NewAccountSnapshotEvent(types.NewAccountSnapshot(account, pnl24h, now)))

	symbols := []string{l.symbol}
	unrealized := 0.0

	for _, raw := range rawPositions {
		position, err := types.ParsePosition(raw)
		if err != nil {
			l.diag.SkippedRecord("position")
			logFailure(l.log, "Skipping position", err, zap.String("symbol", raw.Symbol))

			continue
		}

		if position.IsOpen() {
			unrealized += position.UnrealizedPnl
			if !slices.Contains(symbols, position.RawSymbol) {
				symbols = append(symbols, position.RawSymbol)
			}
		}

		publish(ctx, l.session.Hub, l.log, types.NewPositionUpdateEvent(position))
	}

	publish(ctx, l.session.Hub, l.log, types.NewEquitySnapshotEvent(types.EquitySnapshot{
		Time:          now.Unix(),
		Equity:        equity,
		Balance:       account.WalletBalance,
		UnrealizedPnl: unrealized,
	}))

	if due(l.lastMetrics, now, l.loops.MetricsInterval) {
		l.lastMetrics = now

		snapshot := metrics.Compute(metrics.Input{
			Trades:          l.session.Trades.Snapshot(),
			Equity:          equity,
			Baseline:        l.session.Baseline.Get(),
			UnrealizedTotal: unrealized,
			Noise:           l.noise,
		})
		snapshot = metrics.ApplyAccountPnL(snapshot, metrics.AccountPnL{
			Realized24h:   pnl24h,
			Unrealized:    unrealized,
			WalletBalance: account.WalletBalance,
			Equity:        equity,
		})

		publish(ctx, l.session.Hub, l.log, types.NewMetricsSnapshotEvent(snapshot, now.Unix()))
	}

	if due(l.lastTicker, now, l.loops.TickerInterval) {
		l.lastTicker = now
		l.publishTickers(ctx, symbols, now)
	}

	return nil
}

// refreshIncome replaces the cached 24h PnL. On failure the previous value is kept.
func (l *AccountLoop) refreshIncome(ctx context.Context, now time.Time) {
	start := now.Add(-pnlWindow).UnixMilli()

	records, err := l.client.GetIncomeHistory(ctx, exchange.IncomeQuery{
		Symbol:    l.symbol,
		StartTime: start,
		EndTime:   now.UnixMilli(),
		Limit:     l.loops.IncomeLimit,
	})
	if err != nil {
		l.diag.UpstreamError(exchange.EndpointIncome)
		logFailure(l.log, "Income history fetch failed", err)

		return
	}

	total := decimal.Zero

	for _, record := range records {
		incomeType := strings.ToUpper(record.IncomeType)
		if _, ok := types.PnLIncomeTypes[incomeType]; incomeType != "" && !ok {
			continue
		}

		ms, err := record.Time.Take()
		if err != nil || ms < start {
			continue
		}

		amount, err := record.Amount()
		if err != nil {
			l.diag.SkippedRecord("income")
			logFailure(l.log, "Skipping income record", err)

			continue
		}

		total = total.Add(amount)
	}

	l.pnl24h = total
}

func (l *AccountLoop) publishTickers(ctx context.Context, symbols []string, now time.Time) {
	tickers := make([]types.TickerSummary, 0, len(symbols))

	for _, symbol := range symbols {
		raw, err := l.client.GetTicker24h(ctx, symbol)
		if err != nil {
			l.diag.UpstreamError(exchange.EndpointTicker)
			logFailure(l.log, "Ticker fetch failed", err, zap.String("symbol", symbol))

			continue
		}

		ticker, err := types.ParseTicker(raw)
		if err != nil {
			l.diag.SkippedRecord("ticker")
			logFailure(l.log, "Skipping ticker", err, zap.String("symbol", symbol))

			continue
		}

		tickers = append(tickers, ticker)
	}

	if len(tickers) == 0 {
		return
	}

	publish(ctx, l.session.Hub, l.log, types.NewTickerSnapshotEvent(tickers, now.Unix()))
}
