package transport

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK      = "ok"
	outcomeStatus  = "http_error"
	outcomeParse   = "parse_error"
	outcomeNetwork = "network_error"
)

// Metrics counts requests by entity and outcome. A nil *Metrics records
// nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bouquins_client_requests_total",
			Help: "Catalog requests issued, by entity and outcome.",
		}, []string{"entity", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bouquins_client_request_duration_seconds",
			Help:    "Time until a catalog request settled.",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(entity, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(entity, outcome).Inc()
	m.duration.WithLabelValues(entity).Observe(d.Seconds())
}

func outcomeOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return outcomeStatus
	}
	return outcomeNetwork
}
