// Package diagnostics counts the conditions the pipeline swallows on purpose
// (dropped messages, reconnects, failed deliveries) so they stay observable.
package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

// Recorder owns the diagnostic collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	malformedMessages prometheus.Counter
	streamReconnects  prometheus.Counter
	upstreamErrors    *prometheus.CounterVec
	skippedRecords    *prometheus.CounterVec
	broadcastFailures prometheus.Counter
	events            *prometheus.CounterVec
	observers         prometheus.Gauge
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		malformedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_messages_total",
			Help:      "Upstream stream messages dropped because a required field was absent or unparsable.",
		}),
		streamReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_reconnects_total",
			Help:      "Reconnect attempts of the upstream quote stream.",
		}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed upstream REST requests by endpoint.",
		}, []string{"endpoint"}),
		skippedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_records_total",
			Help:      "Upstream REST records skipped because a required field was missing.",
		}, []string{"kind"}),
		broadcastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_failures_total",
			Help:      "Deliveries that failed and removed the observer.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Broadcast events by type.",
		}, []string{"type"}),
		observers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observers",
			Help:      "Currently registered observers.",
		}),
	}

	reg.MustRegister(
		r.malformedMessages,
		r.streamReconnects,
		r.upstreamErrors,
		r.skippedRecords,
		r.broadcastFailures,
		r.events,
		r.observers,
	)

	return r
}

func (r *Recorder) MalformedMessage() {
	if r == nil {
		return
	}

	r.malformedMessages.Inc()
}

func (r *Recorder) StreamReconnect() {
	if r == nil {
		return
	}

	r.streamReconnects.Inc()
}

func (r *Recorder) UpstreamError(endpoint string) {
	if r == nil {
		return
	}

	r.upstreamErrors.WithLabelValues(endpoint).Inc()
}

func (r *Recorder) SkippedRecord(kind string) {
	if r == nil {
		return
	}

	r.skippedRecords.WithLabelValues(kind).Inc()
}

func (r *Recorder) BroadcastFailures(n int) {
	if r == nil || n <= 0 {
		return
	}

	r.broadcastFailures.Add(float64(n))
}

func (r *Recorder) Event(eventType string) {
	if r == nil {
		return
	}

	r.events.WithLabelValues(eventType).Inc()
}

func (r *Recorder) SetObservers(n int) {
	if r == nil {
		return
	}

	r.observers.Set(float64(n))
}
