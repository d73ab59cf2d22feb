package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/session"
	"github.com/stretchr/testify/require"
)

// collector is an observer that keeps every decoded event.
type collector struct {
	mu     sync.Mutex
	events []map[string]any
}

func (c *collector) ID() string {
	return "collector"
}

func (c *collector) Send(_ context.Context, payload []byte) error {
	var event map[string]any
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)

	return nil
}

// ofType returns the collected events with the given type, in order.
func (c *collector) ofType(eventType string) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []map[string]any
	for _, event := range c.events {
		if event["type"] == eventType {
			out = append(out, event)
		}
	}

	return out
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.events))
	for _, event := range c.events {
		out = append(out, event["type"].(string))
	}

	return out
}

func (c *collector) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = nil
}

type fixture struct {
	cfg       config.Config
	log       *logger.Logger
	diag      *diagnostics.Recorder
	registry  *prometheus.Registry
	session   *session.Session
	collector *collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNopLogger()
	registry := prometheus.NewRegistry()
	diag := diagnostics.NewRecorder(registry)

	h := hub.NewHub(log, diag)
	c := &collector{}
	h.Add(c)

	return &fixture{
		cfg:       config.Default(),
		log:       log,
		diag:      diag,
		registry:  registry,
		session:   session.NewSession(h, session.DefaultTradeWindowSize, log),
		collector: c,
	}
}

// counter sums every sample of the named metric family.
func (f *fixture) counter(t *testing.T, name string) float64 {
	t.Helper()

	families, err := f.registry.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}

	return total
}
