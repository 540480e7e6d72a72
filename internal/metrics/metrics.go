// Package metrics exposes persistence context lifecycle counters to
// Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/flowpc/internal/persistence"
)

const namespace = "flowpc"

// Collector implements persistence.Observer on top of Prometheus counters.
type Collector struct {
	Created   prometheus.Counter
	Reused    prometheus.Counter
	Committed prometheus.Counter
	Closed    prometheus.Counter
	Failures  *prometheus.CounterVec
}

var _ persistence.Observer = (*Collector)(nil)

// New creates the collectors and registers them with reg. A nil reg skips
// registration, which is what tests usually want.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_created_total",
			Help:      "Persistence contexts created for a flow session.",
		}),
		Reused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_reused_total",
			Help:      "Subflow sessions that shared their parent's persistence context.",
		}),
		Committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_committed_total",
			Help:      "Persistence contexts committed on session end.",
		}),
		Closed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_closed_total",
			Help:      "Persistence contexts closed on session end.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_failures_total",
			Help:      "Persistence context operations that returned an error.",
		}, []string{"op"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.Created, c.Reused, c.Committed, c.Closed, c.Failures} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ContextCreated()   { c.Created.Inc() }
func (c *Collector) ContextReused()    { c.Reused.Inc() }
func (c *Collector) ContextCommitted() { c.Committed.Inc() }
func (c *Collector) ContextClosed()    { c.Closed.Inc() }

func (c *Collector) ContextFailed(op string) {
	c.Failures.WithLabelValues(op).Inc()
}
