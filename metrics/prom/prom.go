// Package prom adapts metrics.Metrics to Prometheus, grounded on
// _examples/IvanBrykalov-shardcache/metrics/prom/prom.go. SineCache has no
// cost-based eviction or per-reason eviction labels (both Non-goals), so
// this adapter drops the cost gauge and the evictions_total reason label
// the teacher's version carries.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sinecache/sinecache/metrics"
)

// Adapter implements metrics.Metrics and exports Prometheus counters and a
// gauge. Safe for concurrent use; all Prometheus metric types are
// goroutine-safe, which matters here because AsyncEngine may call into the
// wrapped Engine (and therefore this adapter) from many goroutines even
// though only one call is ever in flight at a time.
type Adapter struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	evicts  prometheus.Counter
	sizeEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictions_total",
			Help:        "Cache evictions",
			ConstLabels: constLabels,
		}),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter.
func (a *Adapter) Evict() { a.evicts.Inc() }

// Size updates the resident entry count gauge.
func (a *Adapter) Size(entries int) { a.sizeEnt.Set(float64(entries)) }

var _ metrics.Metrics = (*Adapter)(nil)
