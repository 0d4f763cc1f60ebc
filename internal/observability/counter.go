package observability

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestCounter is the process-wide count of dashboard operations. It is
// created once in main and injected wherever requests are served.
type RequestCounter struct {
	n       atomic.Int64
	metrics *prometheus.CounterVec
}

// NewRequestCounter creates a counter that also reports each increment to
// the given counter vector, labelled by operation. metrics may be nil.
func NewRequestCounter(metrics *prometheus.CounterVec) *RequestCounter {
	return &RequestCounter{metrics: metrics}
}

// Inc records one operation and returns the new total.
func (c *RequestCounter) Inc(operation string) int64 {
	if c.metrics != nil {
		c.metrics.WithLabelValues(operation).Inc()
	}
	return c.n.Add(1)
}

// Count returns the number of operations recorded so far.
func (c *RequestCounter) Count() int64 {
	return c.n.Load()
}
