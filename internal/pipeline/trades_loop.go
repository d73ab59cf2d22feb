package pipeline

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/exchange"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/session"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"go.uber.org/zap"
)

// TradesLoop publishes the account trades of one symbol: a one-time
// trades_snapshot on the first successful fetch, then one trade_executed
// per trade above the session watermark.
type TradesLoop struct {
	client       exchange.Client
	session      *session.Session
	symbol       string
	interval     time.Duration
	limit        int
	snapshotSize int
	clock        Clock
	log          *logger.Logger
	diag         *diagnostics.Recorder
}

// NewTradesLoop creates the loop. A nil client makes Run a no-op.
func NewTradesLoop(
	client exchange.Client,
	sess *session.Session,
	cfg config.Config,
	log *logger.Logger,
	diag *diagnostics.Recorder,
) *TradesLoop {
	return &TradesLoop{
		client:       client,
		session:      sess,
		symbol:       strings.ToUpper(cfg.Symbol),
		interval:     cfg.Loops.TradesInterval,
		limit:        cfg.Loops.TradeFetchLimit,
		snapshotSize: cfg.Loops.SnapshotSize,
		clock:        time.Now,
		log:          log.Named("trades_loop"),
		diag:         diag,
	}
}

// Run polls until ctx is cancelled. Without credentials it logs once and returns.
func (l *TradesLoop) Run(ctx context.Context) error {
	if l.client == nil {
		l.log.Warn("Binance API credentials absent; trade snapshots disabled")

		return nil
	}

	l.log.Info("Trades loop started",
		zap.String("symbol", l.symbol),
		zap.Duration("interval", l.interval),
		zap.Int("limit", l.limit),
	)

	return every(ctx, l.interval, l.clock, func(ctx context.Context, now time.Time) {
		if err := l.Tick(ctx, now); err != nil {
			logFailure(l.log, "Trade polling failed", err)
		}
	})
}

// Tick fetches the recent trades once and publishes what is new.
func (l *TradesLoop) Tick(ctx context.Context, now time.Time) error {
	raws, err := l.client.GetRecentTrades(ctx, l.symbol, l.limit)
	if err != nil {
		l.diag.UpstreamError(exchange.EndpointTrades)

		return err
	}

	l.session.Trades.Merge(raws)

	trades := l.parse(raws, now)
	if len(trades) == 0 {
		return nil
	}

	watermark, err := l.session.Watermarks.Get(l.symbol).Take()
	if err != nil {
		l.publishSnapshot(ctx, trades, now)

		return nil
	}

	for _, trade := range trades {
		if trade.ID <= watermark {
			continue
		}

		if ctx.Err() != nil {
			return nil
		}

		publish(ctx, l.session.Hub, l.log, types.NewTradeExecutedEvent(trade.View()))
		l.session.Watermarks.Advance(l.symbol, trade.ID)
	}

	return nil
}

// parse validates raws and returns them in ascending id order. Invalid
// records are skipped one by one.
func (l *TradesLoop) parse(raws []types.RawTrade, now time.Time) []types.TradeRecord {
	trades := make([]types.TradeRecord, 0, len(raws))

	for _, raw := range raws {
		trade, err := types.ParseTrade(raw, now)
		if err != nil {
			l.diag.SkippedRecord("trade")
			logFailure(l.log, "Skipping trade", err)

			continue
		}

		trades = append(trades, trade)
	}

	slices.SortFunc(trades, func(a, b types.TradeRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return slices.CompactFunc(trades, func(a, b types.TradeRecord) bool {
		return a.ID == b.ID
	})
}

// publishSnapshot sends the newest trades, newest first, and sets the
// watermark to the highest id seen.
func (l *TradesLoop) publishSnapshot(ctx context.Context, trades []types.TradeRecord, now time.Time) {
	recent := trades[max(0, len(trades)-l.snapshotSize):]

	views := make([]types.TradeView, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		views = append(views, recent[i].View())
	}

	if !publish(ctx, l.session.Hub, l.log, types.NewTradesSnapshotEvent(views, now.Unix())) && ctx.Err() != nil {
		return
	}

	highest := trades[len(trades)-1].ID
	l.session.Watermarks.Advance(l.symbol, highest)

	l.log.Info("Trades snapshot published",
		zap.Int("trades", len(views)),
		zap.Int64("watermark", highest),
	)
}
