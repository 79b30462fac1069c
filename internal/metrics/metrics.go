package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safetrip_http_requests_total",
		Help: "Total HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "code"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "safetrip_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	SafetyScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "safetrip_safety_score",
		Help:    "Distribution of computed area safety scores (1-5, 5 safest)",
		Buckets: []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
	})
	DispatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safetrip_emergency_dispatches_total",
		Help: "Simulated emergency dispatches by emergency type",
	}, []string{"type"})
	IncidentsReportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safetrip_incidents_reported_total",
		Help: "Incident reports persisted by incident type",
	}, []string{"type"})
	ZonesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safetrip_zones_auto_created_total",
		Help: "Caution zones materialized from high-severity incidents",
	})
	ZoneCreateFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safetrip_zone_create_failures_total",
		Help: "Swallowed failures of automatic zone creation",
	})
	AlertsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safetrip_contact_alerts_total",
		Help: "Contact alerts processed by the notifier, by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(SafetyScore)
	prometheus.MustRegister(DispatchesTotal)
	prometheus.MustRegister(IncidentsReportedTotal)
	prometheus.MustRegister(ZonesCreatedTotal)
	prometheus.MustRegister(ZoneCreateFailuresTotal)
	prometheus.MustRegister(AlertsSentTotal)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
