package session

import (
	"sync/atomic"

	"github.com/moznion/go-optional"
)

// BaselineEquity is a write-once cell holding the equity observed on the
// first successful account tick.
type BaselineEquity struct {
	value atomic.Pointer[float64]
}

func NewBaselineEquity() *BaselineEquity {
	return &BaselineEquity{}
}

// TrySet stores v when the cell is still empty. It reports whether this call
// won the initialization.
func (b *BaselineEquity) TrySet(v float64) bool {
	return b.value.CompareAndSwap(nil, &v)
}

// Get returns the baseline, or None when it has not been captured yet.
func (b *BaselineEquity) Get() optional.Option[float64] {
	if v := b.value.Load(); v != nil {
		return optional.Some(*v)
	}

	return optional.None[float64]()
}
