package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusbot/whereis/internal/resolve"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ResolveTotal     *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	CatalogBuildings prometheus.Gauge
}

// NewMetrics creates the collectors and registers them along with the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ResolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whereis",
			Name:      "resolve_total",
			Help:      "Building queries resolved, by match tier.",
		}, []string{"tier"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "whereis",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status code.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route", "code"}),
		CatalogBuildings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "whereis",
			Name:      "catalog_buildings",
			Help:      "Buildings in the live catalog.",
		}),
	}

	m.registry.MustRegister(
		m.ResolveTotal,
		m.RequestDuration,
		m.CatalogBuildings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, tier := range []resolve.Tier{resolve.TierExact, resolve.TierFuzzy, resolve.TierNone} {
		m.ResolveTotal.WithLabelValues(string(tier))
	}
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResolve counts one resolution by tier.
func (m *Metrics) ObserveResolve(res resolve.MatchResult) {
	tier := res.Tier
	if tier == "" {
		tier = resolve.TierNone
	}
	m.ResolveTotal.WithLabelValues(string(tier)).Inc()
}

// SetCatalog records the size of a newly loaded catalog.
func (m *Metrics) SetCatalog(r *resolve.Resolver) {
	m.CatalogBuildings.Set(float64(r.Catalog().Len()))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
