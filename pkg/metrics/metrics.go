package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service's collectors on a private registry so tests
// can build as many as they like.
type Registry struct {
	reg *prometheus.Registry

	HTTPInFlight        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AssessmentTransitions *prometheus.CounterVec
	ClaimAttempts         *prometheus.CounterVec
	VoteToggles           *prometheus.CounterVec
	RateLimited           prometheus.Counter
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		AssessmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_transitions_total",
			Help: "Assessment workflow transitions by resulting state.",
		}, []string{"state"}),
		ClaimAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "business_claim_attempts_total",
			Help: "Business claim attempts by outcome.",
		}, []string{"outcome"}),
		VoteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_vote_toggles_total",
			Help: "Helpful vote toggles by resulting direction.",
		}, []string{"direction"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	r.reg.MustRegister(
		r.HTTPInFlight,
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
		r.AssessmentTransitions,
		r.ClaimAttempts,
		r.VoteToggles,
		r.RateLimited,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer is used by tests to read back collected values.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
