package webhdfs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts client operations in Prometheus.
type Metrics struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webhdfs",
				Subsystem: "client",
				Name:      "operations_total",
				Help:      "Total number of client operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "webhdfs",
				Subsystem: "client",
				Name:      "transfer_bytes_total",
				Help:      "Bytes moved by successful transfers",
			},
			[]string{"op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "webhdfs",
				Subsystem: "client",
				Name:      "operation_duration_seconds",
				Help:      "Duration of client operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"op"},
		),
	}
	for _, c := range []prometheus.Collector{m.operations, m.bytes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Report records r; Metrics can be used directly as a Reporter.
func (m *Metrics) Report(r *Result) {
	if m == nil {
		return
	}
	op := string(r.Op)
	m.operations.WithLabelValues(op, string(r.Kind)).Inc()
	m.duration.WithLabelValues(op).Observe(r.Duration.Seconds())
	if r.OK() && r.Bytes > 0 {
		m.bytes.WithLabelValues(op).Add(float64(r.Bytes))
	}
}
