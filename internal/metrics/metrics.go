// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. Build one per process with New.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ReservationsCreated *prometheus.CounterVec
	ReservationsFailed  *prometheus.CounterVec
	StatusChanges       *prometheus.CounterVec
	AvailabilitySeeded  prometheus.Counter
	CacheLookups        *prometheus.CounterVec
	FeedSubscribers     prometheus.Gauge
	EventsConsumed      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ReservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservations created by initial status.",
		}, []string{"status"}),
		ReservationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_failed_total",
			Help: "Rejected reservation attempts by error kind.",
		}, []string{"kind"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_status_changes_total",
			Help: "Reservation status changes by new status.",
		}, []string{"status"}),
		AvailabilitySeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "availability_rows_seeded_total",
			Help: "Availability rows created by month seeding.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_cache_lookups_total",
			Help: "Schedule cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		FeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_feed_subscribers",
			Help: "Open schedule feed websocket connections.",
		}),
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "NATS events handled by subject and outcome.",
		}, []string{"subject", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.ReservationsCreated,
		m.ReservationsFailed,
		m.StatusChanges,
		m.AvailabilitySeeded,
		m.CacheLookups,
		m.FeedSubscribers,
		m.EventsConsumed,
	)
	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCacheLookup matches schedule.CacheRecorder
func (m *Metrics) RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// The recording helpers below accept a nil receiver so callers built without
// metrics need no checks.

func (m *Metrics) ReservationCreated(status string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) ReservationFailed(kind string) {
	if m == nil {
		return
	}
	m.ReservationsFailed.WithLabelValues(kind).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) Seeded(created int) {
	if m == nil || created <= 0 {
		return
	}
	m.AvailabilitySeeded.Add(float64(created))
}

func (m *Metrics) EventConsumed(subject string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.EventsConsumed.WithLabelValues(subject, outcome).Inc()
}
