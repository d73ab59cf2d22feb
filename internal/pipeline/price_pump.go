package pipeline

import (
	"context"
	"iter"

	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"go.uber.org/zap"
)

// QuoteSource is a restartable quote stream such as stream.BookTickerStream.
type QuoteSource interface {
	Run(ctx context.Context) iter.Seq2[types.QuoteEvent, error]
	Stop()
}

// PricePump turns every quote into a price_update event.
type PricePump struct {
	source QuoteSource
	hub    *hub.Hub
	log    *logger.Logger
}

func NewPricePump(source QuoteSource, h *hub.Hub, log *logger.Logger) *PricePump {
	return &PricePump{
		source: source,
		hub:    h,
		log:    log.Named("price_pump"),
	}
}

// Run drains the source until ctx is cancelled. Stream errors are transient
// and only logged; the source reconnects on its own.
func (p *PricePump) Run(ctx context.Context) error {
	defer p.source.Stop()

	for quote, err := range p.source.Run(ctx) {
		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			p.log.Warn("Quote stream interrupted", zap.Error(err))

			continue
		}

		publish(ctx, p.hub, p.log, types.NewPriceUpdateEvent(quote))
	}

	return nil
}
