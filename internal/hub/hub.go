// Package hub fans events out to every connected observer.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"go.uber.org/zap"
)

// Observer is a downstream sink. Send must return an error when the event
// could not be delivered; the hub then drops the observer.
type Observer interface {
	ID() string
	Send(ctx context.Context, payload []byte) error
}

// Report describes one broadcast.
type Report struct {
	// Attempted equals the membership at the moment delivery began.
	Attempted int
	Delivered int
	Removed   int
}

// Hub is the observer registry. One mutex serializes membership changes and
// the iterate-and-deliver phase of Broadcast.
type Hub struct {
	mu        sync.Mutex
	observers map[string]Observer
	log       *logger.Logger
	diag      *diagnostics.Recorder
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger, diag *diagnostics.Recorder) *Hub {
	return &Hub{
		mu:        sync.Mutex{},
		observers: make(map[string]Observer),
		log:       log.Named("hub"),
		diag:      diag,
	}
}

// Add registers an observer. Adding the same id again replaces the previous handle.
func (h *Hub) Add(observer Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.observers[observer.ID()] = observer
	h.diag.SetObservers(len(h.observers))
	h.log.Debug("Observer added", zap.String("observer", observer.ID()), zap.Int("observers", len(h.observers)))
}

// Remove unregisters an observer. Removing an unknown observer is a no-op.
func (h *Hub) Remove(observer Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(observer.ID())
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.observers)
}

// Broadcast encodes event once and delivers it to every registered observer.
// Observers whose delivery fails are removed when delivery to all others is
// done. Encoding failures deliver nothing.
func (h *Hub) Broadcast(ctx context.Context, event types.Event) (Report, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Report{}, errors.Wrapf(errors.ErrCodeEncodeFailed, err, "failed to encode %s event", event.EventType())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	report := Report{Attempted: len(h.observers), Delivered: 0, Removed: 0}

	var failed []string

	for id, observer := range h.observers {
		if err := observer.Send(ctx, payload); err != nil {
			h.log.Debug("Delivery failed",
				zap.String("observer", id),
				zap.String("event", string(event.EventType())),
				zap.Error(err),
			)

			failed = append(failed, id)

			continue
		}

		report.Delivered++
	}

	for _, id := range failed {
		h.removeLocked(id)
	}

	report.Removed = len(failed)
	h.diag.BroadcastFailures(report.Removed)
	h.diag.Event(string(event.EventType()))

	return report, nil
}

func (h *Hub) removeLocked(id string) {
	if _, ok := h.observers[id]; !ok {
		return
	}

	delete(h.observers, id)
	h.diag.SetObservers(len(h.observers))
	h.log.Debug("Observer removed", zap.String("observer", id), zap.Int("observers", len(h.observers)))
}
