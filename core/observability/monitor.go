// Package observability exposes prometheus metrics for the serving path.
// Per-response recording is two counter increments on prebound collectors;
// no labels are resolved on the hot path.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Codes the server can emit; counters for these are bound at construction.
var knownCodes = []int{200, 304, 400, 404, 405, 408, 413}

// Monitor owns a private registry so multiple instances (tests, embedded
// use) never collide on collector registration.
type Monitor struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	byCode        map[int]prometheus.Counter
	responseBytes prometheus.Counter
	activeConns   prometheus.Gauge
	cacheEntries  prometheus.Gauge
	cacheBytes    prometheus.Gauge
}

// NewMonitor creates a monitor with all collectors registered.
func NewMonitor() *Monitor {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Monitor{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "static_server",
			Name:      "requests_total",
			Help:      "Responses written, by status code.",
		}, []string{"code"}),
		responseBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "static_server",
			Name:      "response_bytes_total",
			Help:      "Total bytes written to clients.",
		}),
		activeConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "static_server",
			Name:      "active_connections",
			Help:      "Currently open client connections.",
		}),
		cacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "static_server",
			Name:      "cache_entries",
			Help:      "Files in the precomputed response cache.",
		}),
		cacheBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "static_server",
			Name:      "cache_bytes",
			Help:      "Body bytes held by the precomputed response cache.",
		}),
	}

	m.byCode = make(map[int]prometheus.Counter, len(knownCodes))
	for _, code := range knownCodes {
		m.byCode[code] = m.requests.WithLabelValues(strconv.Itoa(code))
	}

	return m
}

// Request records one written response.
func (m *Monitor) Request(code, bytes int) {
	if c, ok := m.byCode[code]; ok {
		c.Inc()
	} else {
		m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
	}
	m.responseBytes.Add(float64(bytes))
}

// ConnOpened records an accepted connection.
func (m *Monitor) ConnOpened() {
	m.activeConns.Inc()
}

// ConnClosed records a closed connection.
func (m *Monitor) ConnClosed() {
	m.activeConns.Dec()
}

// SetCacheStats records the published cache size.
func (m *Monitor) SetCacheStats(entries int, bytes int64) {
	m.cacheEntries.Set(float64(entries))
	m.cacheBytes.Set(float64(bytes))
}

// Handler serves the registry in the prometheus exposition format. It is
// mounted on the admin listener, never on the serving path.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
