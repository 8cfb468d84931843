// Package metrics exposes Prometheus collectors for valuations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lsmc"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics is the set of collectors recorded by the API.
type Metrics struct {
	registry *prometheus.Registry

	Valuations        *prometheus.CounterVec
	ValuationDuration *prometheus.HistogramVec
	Regressions       *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	StoredResults     prometheus.GaugeFunc
}

// New registers the collectors on a fresh registry. storedResults reports
// the current size of the result store; nil reports zero.
func New(storedResults func() int) *Metrics {
	if storedResults == nil {
		storedResults = func() int { return 0 }
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Valuations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuations_total",
			Help:      "Valuations run, by contract kind and outcome",
		}, []string{"kind", "outcome"}),
		ValuationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "valuation_duration_seconds",
			Help:      "Wall time of one valuation",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"kind"}),
		Regressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regressions_total",
			Help:      "Continuation-value regressions performed",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		StoredResults: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_results",
			Help:      "Valuations currently held in the result store",
		}, func() float64 { return float64(storedResults()) }),
	}
	m.registry.MustRegister(
		m.Valuations,
		m.ValuationDuration,
		m.Regressions,
		m.HTTPRequests,
		m.StoredResults,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveValuation records one finished (or failed) valuation.
func (m *Metrics) ObserveValuation(kind string, elapsed time.Duration, regressions int, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Valuations.WithLabelValues(kind, outcome).Inc()
	m.ValuationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if regressions > 0 {
		m.Regressions.WithLabelValues(kind).Add(float64(regressions))
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
