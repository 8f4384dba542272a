// Package metrics defines the observability hooks an Engine reports
// through, adapted from _examples/IvanBrykalov-shardcache/cache/metrics.go.
// SineCache has only policy-chosen evictions (no TTL/cost eviction, both
// Non-goals), so Evict carries no reason argument.
package metrics

// Metrics receives cache-level events. A Noop implementation is provided
// and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Noop is a drop-in Metrics implementation that does nothing.
type Noop struct{}

func (Noop) Hit()     {}
func (Noop) Miss()    {}
func (Noop) Evict()   {}
func (Noop) Size(int) {}

var _ Metrics = Noop{}
