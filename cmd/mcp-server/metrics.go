package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/njchilds90/mathtree"
	"github.com/njchilds90/mathtree/internal/session"
)

var knownTools = func() map[string]bool {
	m := map[string]bool{}
	for _, name := range mathtree.ToolNames() {
		m[name] = true
	}
	return m
}()

// toolLabel keeps the tool label bounded to registered tool names.
func toolLabel(name string) string {
	if knownTools[name] {
		return name
	}
	return "unknown"
}

type metrics struct {
	toolCalls *prometheus.CounterVec
	keys      *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry, store *session.Store) *metrics {
	m := &metrics{
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathtree_tool_calls_total",
			Help: "Tool calls handled, by tool and outcome.",
		}, []string{"tool", "outcome"}),
		keys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathtree_session_keys_total",
			Help: "Editor keys applied to sessions, by key name.",
		}, []string{"key"}),
	}
	reg.MustRegister(m.toolCalls, m.keys, newStoreCollector(store))
	return m
}

// storeCollector reads the session count on each scrape.
type storeCollector struct {
	store  *session.Store
	active *prometheus.Desc
}

func newStoreCollector(store *session.Store) *storeCollector {
	return &storeCollector{
		store: store,
		active: prometheus.NewDesc(
			"mathtree_sessions_active",
			"Editor sessions currently held.",
			nil, nil,
		),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.active
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(c.store.Len()))
}
