package session

import (
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-dashboard/internal/types"
)

// DefaultTradeWindowSize matches the number of trades fetched per poll.
const DefaultTradeWindowSize = 500

// TradeWindow keeps the most recent raw trades, keyed by trade id. It is fed
// by the trades loop and read by the metrics computation.
type TradeWindow struct {
	mu       sync.RWMutex
	capacity int
	trades   map[int64]types.RawTrade
}

func NewTradeWindow(capacity int) *TradeWindow {
	if capacity <= 0 {
		capacity = DefaultTradeWindowSize
	}

	return &TradeWindow{
		mu:       sync.RWMutex{},
		capacity: capacity,
		trades:   make(map[int64]types.RawTrade, capacity),
	}
}

// Capacity returns the maximum number of trades kept.
func (w *TradeWindow) Capacity() int {
	return w.capacity
}

// Merge adds trades to the window. Records without an id are ignored, a
// known id is overwritten and the oldest ids are evicted beyond capacity.
func (w *TradeWindow) Merge(trades []types.RawTrade) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, trade := range trades {
		id, err := trade.ID.Take()
		if err != nil {
			continue
		}

		w.trades[id] = trade
	}

	if len(w.trades) <= w.capacity {
		return
	}

	ids := w.sortedIDsLocked()
	for _, id := range ids[:len(ids)-w.capacity] {
		delete(w.trades, id)
	}
}

// Snapshot returns the window ordered by ascending trade id.
func (w *TradeWindow) Snapshot() []types.RawTrade {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := w.sortedIDsLocked()
	out := make([]types.RawTrade, 0, len(ids))

	for _, id := range ids {
		out = append(out, w.trades[id])
	}

	return out
}

// Len returns the number of trades in the window.
func (w *TradeWindow) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.trades)
}

func (w *TradeWindow) sortedIDsLocked() []int64 {
	ids := make([]int64, 0, len(w.trades))
	for id := range w.trades {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
