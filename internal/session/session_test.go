package session

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/stretchr/testify/suite"
)

type SessionTestSuite struct {
	suite.Suite
	logger *logger.Logger
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupSuite() {
	s.logger = logger.NewNopLogger()
}

func (s *SessionTestSuite) TestNewSession() {
	h := hub.NewHub(s.logger, nil)
	sess := NewSession(h, 0, s.logger)

	s.Same(h, sess.Hub)
	s.Equal(DefaultTradeWindowSize, sess.Trades.Capacity())
	s.True(sess.Baseline.Get().IsNone())
	s.False(sess.StartedAt().IsZero())

	_, err := uuid.Parse(sess.RunID())
	s.NoError(err)
}

func (s *SessionTestSuite) TestBaselineIsWriteOnce() {
	baseline := NewBaselineEquity()

	s.True(baseline.TrySet(10050))
	s.False(baseline.TrySet(20000))

	value, err := baseline.Get().Take()
	s.Require().NoError(err)
	s.Equal(10050.0, value)
}

func (s *SessionTestSuite) TestBaselineConcurrentInitialization() {
	baseline := NewBaselineEquity()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			if baseline.TrySet(v) {
				winners.Add(1)
			}
		}(float64(i + 1))
	}

	wg.Wait()

	s.Equal(int32(1), winners.Load())
	s.True(baseline.Get().IsSome())
}

func (s *SessionTestSuite) TestWatermarksAreMonotonic() {
	marks := NewWatermarks()
	s.True(marks.Get("BTCUSDT").IsNone())

	s.True(marks.Advance("BTCUSDT", 10))
	s.False(marks.Advance("BTCUSDT", 7))
	s.False(marks.Advance("btcusdt", 10))
	s.True(marks.Advance("btcusdt", 12))

	id, err := marks.Get("BTCUSDT").Take()
	s.Require().NoError(err)
	s.Equal(int64(12), id)

	s.True(marks.Get("ETHUSDT").IsNone())
}

func rawTrade(id int64) types.RawTrade {
	return types.RawTrade{
		ID:          optional.Some(id),
		Symbol:      "BTCUSDT",
		Price:       "100",
		Quantity:    "1",
		RealizedPnl: "0",
		Time:        optional.Some(id * 1000),
	}
}

func (s *SessionTestSuite) TestTradeWindowDedupAndOrder() {
	window := NewTradeWindow(10)

	window.Merge([]types.RawTrade{rawTrade(3), rawTrade(1), rawTrade(2)})
	updated := rawTrade(2)
	updated.RealizedPnl = "5"
	window.Merge([]types.RawTrade{updated, {Symbol: "BTCUSDT"}})

	snapshot := window.Snapshot()
	s.Require().Len(snapshot, 3)

	for i, trade := range snapshot {
		id, err := trade.ID.Take()
		s.Require().NoError(err)
		s.Equal(int64(i+1), id)
	}

	s.Equal("5", snapshot[1].RealizedPnl)
}

func (s *SessionTestSuite) TestTradeWindowEvictsOldest() {
	window := NewTradeWindow(3)

	for id := int64(1); id <= 5; id++ {
		window.Merge([]types.RawTrade{rawTrade(id)})
	}

	s.Equal(3, window.Len())

	snapshot := window.Snapshot()
	first, err := snapshot[0].ID.Take()
	s.Require().NoError(err)
	s.Equal(int64(3), first)
}
