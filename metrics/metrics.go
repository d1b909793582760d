// Package metrics exports the structural activity and shape of a btree as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"btreeindex/btree"
)

// Shape is the part of a tree the gauges follow.
type Shape interface {
	Len() int
	Height() int
}

// Collector counts btree events and tracks tree size; it implements btree.Observer.
type Collector struct {
	MetricEvents *prometheus.CounterVec
	MetricKeys   prometheus.Gauge
	MetricHeight prometheus.Gauge
}

var _ btree.Observer = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer, labels prometheus.Labels) *Collector {
	factory := promauto.With(reg)
	c := &Collector{
		MetricEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "btree_structural_events_total",
			Help:        "Node splits, borrows, merges and root changes performed by the tree.",
			ConstLabels: labels,
		}, []string{"event"}),
		MetricKeys: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "btree_keys",
			Help:        "Number of keys stored in the tree.",
			ConstLabels: labels,
		}),
		MetricHeight: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "btree_height",
			Help:        "Number of levels in the tree.",
			ConstLabels: labels,
		}),
	}
	// Pre-create every series so they are exported at zero before the first event.
	for _, e := range btree.Events {
		c.MetricEvents.WithLabelValues(e.String())
	}
	return c
}

func (c *Collector) Observe(e btree.Event) {
	c.MetricEvents.WithLabelValues(e.String()).Inc()
}

// Track refreshes the gauges from the tree's current shape.
func (c *Collector) Track(s Shape) {
	c.MetricKeys.Set(float64(s.Len()))
	c.MetricHeight.Set(float64(s.Height()))
}
