// Package metrics provides Prometheus metrics for the Callisto client:
// admission-gate activity, API request outcomes, and journal writes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains Prometheus collectors for the client.
type Metrics struct {
	registry prometheus.Registerer

	// Gate activity
	admissions  *prometheus.CounterVec
	gateWait    *prometheus.HistogramVec
	gateRemains prometheus.Gauge

	// API requests
	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec

	// Journal writes
	journalWrites *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg. If reg is nil the
// default Prometheus registerer is used.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		admissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callisto_gate_admissions_total",
				Help: "Total number of admissions granted or abandoned by the gate",
			},
			[]string{"operation", "result"},
		),

		gateWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callisto_gate_wait_seconds",
				Help:    "Time spent waiting for an admission",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"operation"},
		),

		gateRemains: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "callisto_gate_window_remaining",
				Help: "Admissions still available in the current window",
			},
		),

		apiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callisto_api_requests_total",
				Help: "Total number of GIS MT API requests by outcome",
			},
			[]string{"operation", "result"},
		),

		apiDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callisto_api_request_duration_seconds",
				Help:    "Duration of GIS MT API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		journalWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callisto_journal_writes_total",
				Help: "Total number of journal records written by outcome",
			},
			[]string{"result"},
		),
	}
}

// RecordAdmission records an admission outcome and the time spent waiting.
func (m *Metrics) RecordAdmission(operation string, granted bool, waitSeconds float64) {
	result := "granted"
	if !granted {
		result = "cancelled"
	}
	m.admissions.WithLabelValues(operation, result).Inc()
	if granted {
		m.gateWait.WithLabelValues(operation).Observe(waitSeconds)
	}
}

// SetWindowRemaining updates the remaining-admissions gauge.
func (m *Metrics) SetWindowRemaining(remaining int) {
	m.gateRemains.Set(float64(remaining))
}

// RecordAPIRequest records an API request outcome and duration.
func (m *Metrics) RecordAPIRequest(operation string, success bool, seconds float64) {
	result := "success"
	if !success {
		result = "error"
	}
	m.apiRequests.WithLabelValues(operation, result).Inc()
	m.apiDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordJournalWrite records a journal write outcome.
func (m *Metrics) RecordJournalWrite(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	m.journalWrites.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler exposing the gatherer in Prometheus
// exposition format. Pass the *prometheus.Registry the Metrics were
// registered on, or nil for the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
