// Package session holds the state shared by the dashboard tasks of one
// process run: the observer hub, the baseline equity cell, the per-symbol
// trade watermarks and the recent trade window.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"go.uber.org/zap"
)

// Session is constructed once at process start and passed to every task.
type Session struct {
	Hub        *hub.Hub
	Baseline   *BaselineEquity
	Watermarks *Watermarks
	Trades     *TradeWindow

	runID     string
	startedAt time.Time
}

// NewSession creates a session around an existing hub.
func NewSession(h *hub.Hub, tradeWindowSize int, log *logger.Logger) *Session {
	s := &Session{
		Hub:        h,
		Baseline:   NewBaselineEquity(),
		Watermarks: NewWatermarks(),
		Trades:     NewTradeWindow(tradeWindowSize),
		runID:      uuid.NewString(),
		startedAt:  time.Now(),
	}

	log.Info("Session initialized",
		zap.String("run_id", s.runID),
		zap.Int("trade_window", s.Trades.Capacity()),
	)

	return s
}

// RunID returns the unique id of this process run.
func (s *Session) RunID() string {
	return s.runID
}

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}
