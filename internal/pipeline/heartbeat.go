package pipeline

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
)

// Heartbeat publishes a heartbeat event every interval.
type Heartbeat struct {
	hub      *hub.Hub
	interval time.Duration
	clock    Clock
	log      *logger.Logger
}

func NewHeartbeat(h *hub.Hub, interval time.Duration, log *logger.Logger) *Heartbeat {
	return &Heartbeat{
		hub:      h,
		interval: interval,
		clock:    time.Now,
		log:      log.Named("heartbeat"),
	}
}

func (b *Heartbeat) Run(ctx context.Context) error {
	return every(ctx, b.interval, b.clock, func(ctx context.Context, now time.Time) {
		b.Tick(ctx, now)
	})
}

func (b *Heartbeat) Tick(ctx context.Context, now time.Time) {
	publish(ctx, b.hub, b.log, types.NewHeartbeatEvent(now.Unix()))
}
