package session

import (
	"strings"
	"sync"

	"github.com/moznion/go-optional"
)

// Watermarks tracks, per symbol, the highest trade id already emitted downstream.
type Watermarks struct {
	mu    sync.Mutex
	marks map[string]int64
}

func NewWatermarks() *Watermarks {
	return &Watermarks{
		mu:    sync.Mutex{},
		marks: make(map[string]int64),
	}
}

// Get returns the watermark for symbol, or None before the first snapshot.
func (w *Watermarks) Get(symbol string) optional.Option[int64] {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id, ok := w.marks[strings.ToUpper(symbol)]; ok {
		return optional.Some(id)
	}

	return optional.None[int64]()
}

// Advance raises the watermark for symbol to id. Lower ids are ignored so the
// watermark never moves backwards. It reports whether the watermark changed.
func (w *Watermarks) Advance(symbol string, id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := strings.ToUpper(symbol)
	if current, ok := w.marks[key]; ok && id <= current {
		return false
	}

	w.marks[key] = id

	return true
}
