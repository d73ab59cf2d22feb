// Package pipeline contains the periodic producers of dashboard events: the
// account loop, the trades loop, the heartbeat and the price pump.
//
// Every periodic task exposes Tick(ctx, now), a single deterministic step,
// and Run(ctx), which calls Tick immediately and then once per interval
// until ctx is cancelled.
package pipeline

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"go.uber.org/zap"
)

// Clock returns the current time.
type Clock func() time.Time

// every runs step at once and then every interval until ctx is done.
func every(ctx context.Context, interval time.Duration, clock Clock, step func(ctx context.Context, now time.Time)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		step(ctx, clock())

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// publish broadcasts event unless ctx is already cancelled. It reports whether
// the event went out.
func publish(ctx context.Context, h *hub.Hub, log *logger.Logger, event types.Event) bool {
	if ctx.Err() != nil {
		return false
	}

	report, err := h.Broadcast(ctx, event)
	if err != nil {
		log.Error("Failed to broadcast event",
			zap.String("event", string(event.EventType())),
			zap.Error(err),
		)

		return false
	}

	if report.Removed > 0 {
		log.Debug("Dropped unreachable observers",
			zap.String("event", string(event.EventType())),
			zap.Int("removed", report.Removed),
		)
	}

	return true
}

// due reports whether interval has elapsed since last. A zero last is always due.
func due(last, now time.Time, interval time.Duration) bool {
	return last.IsZero() || now.Sub(last) >= interval
}

// logFailure logs skipped records at debug, upstream failures at warn and
// everything else at error.
func logFailure(log *logger.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))

	switch {
	case errors.IsRecordSkip(err):
		log.Debug(msg, fields...)
	case errors.IsUpstreamFailure(err):
		log.Warn(msg, fields...)
	default:
		log.Error(msg, fields...)
	}
}
