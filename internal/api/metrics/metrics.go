// Package metrics defines the gateway's custom Prometheus metrics. It is the
// single source of truth for metric names, labels and help strings.
//
// Metrics are registered against the registerer handed to NewUpstream, so a
// router (or a test) can use an isolated registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console_gateway"

// Upstream records one observation per backend call.
type Upstream struct {
	// requests counts backend calls.
	// Labels:
	//   - route: stable route label (e.g. "partner.update")
	//   - outcome: "ok" or the lowercased error kind (e.g. "upstream_timeout")
	requests *prometheus.CounterVec

	// duration measures backend round trips, failures included.
	// Label:
	//   - route
	duration *prometheus.HistogramVec
}

// NewUpstream registers the upstream metrics with reg.
func NewUpstream(reg prometheus.Registerer) *Upstream {
	f := promauto.With(reg)
	return &Upstream{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of backend calls, by route and outcome.",
			},
			[]string{"route", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of backend calls as seen by the gateway.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Observe satisfies service.CallRecorder.
func (u *Upstream) Observe(route, outcome string, elapsed time.Duration) {
	u.requests.WithLabelValues(route, outcome).Inc()
	u.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}
