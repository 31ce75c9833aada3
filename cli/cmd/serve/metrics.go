package serve

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render outcomes reported in the renders_total metric.
const (
	outcomeOK       = "ok"
	outcomeParse    = "parse_error"
	outcomeMissing  = "missing_variable"
	outcomeInvalid  = "invalid_request"
	outcomeFailed   = "error"
	outcomeLimit    = "output_limit"
	outcomeCanceled = "canceled"
)

type metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dollar",
				Name:      "renders_total",
				Help:      "Total number of template requests by route and outcome",
			},
			[]string{"route", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dollar",
				Name:      "render_duration_seconds",
				Help:      "Duration of template requests by route",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(m.renders, m.duration)

	return m
}

// observe records one request to route that began at start.
func (m *metrics) observe(route, outcome string, start time.Time) {
	m.renders.WithLabelValues(route, outcome).Inc()
	m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
