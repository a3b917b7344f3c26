// Package metrics provides Prometheus metrics for registry calls and the
// URL preview server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors. Build one per registry with New.
type Metrics struct {
	RegistryRequestsTotal   *prometheus.CounterVec
	RegistryRequestDuration *prometheus.HistogramVec
	RegistryInFlight        prometheus.Gauge

	BuildErrorsTotal *prometheus.CounterVec

	PreviewRequestsTotal *prometheus.CounterVec
	ConfigReloadsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses
// a private registry, which keeps tests independent of each other.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		RegistryRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdmxrest_registry_requests_total",
				Help: "Registry requests by resource family, API version and outcome",
			},
			[]string{"resource", "api_version", "outcome"},
		),
		RegistryRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sdmxrest_registry_request_duration_seconds",
				Help:    "Registry request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "api_version"},
		),
		RegistryInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "sdmxrest_registry_requests_in_flight",
			Help: "Registry requests currently in flight",
		}),
		BuildErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdmxrest_build_errors_total",
				Help: "Queries rejected before any request was sent, by resource family and error kind",
			},
			[]string{"resource", "kind"},
		),
		PreviewRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdmxrest_preview_requests_total",
				Help: "Preview API requests by route and status code",
			},
			[]string{"route", "status"},
		),
		ConfigReloadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdmxrest_config_reloads_total",
				Help: "Config reloads by result",
			},
			[]string{"result"},
		),
	}
}

// RecordRegistryRequest records one completed registry call. outcome is
// "ok" or an error kind name.
func (m *Metrics) RecordRegistryRequest(resource, apiVersion, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RegistryRequestsTotal.WithLabelValues(resource, apiVersion, outcome).Inc()
	m.RegistryRequestDuration.WithLabelValues(resource, apiVersion).Observe(d.Seconds())
}

func (m *Metrics) RecordBuildError(resource, kind string) {
	if m == nil {
		return
	}
	m.BuildErrorsTotal.WithLabelValues(resource, kind).Inc()
}

func (m *Metrics) RecordPreview(route string, status int) {
	if m == nil {
		return
	}
	m.PreviewRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.ConfigReloadsTotal.WithLabelValues(result).Inc()
}

// InFlight increments the in-flight gauge and returns its decrement.
func (m *Metrics) InFlight() func() {
	if m == nil {
		return func() {}
	}
	m.RegistryInFlight.Inc()
	return m.RegistryInFlight.Dec
}
