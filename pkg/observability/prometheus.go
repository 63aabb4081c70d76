package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/gtreader/pkg/errors"
)

const namespace = "gtreader"

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	registry *prometheus.Registry

	decodesTotal   *prometheus.CounterVec   // by compression and code
	decodeDuration *prometheus.HistogramVec // by compression
	decodedBytes   prometheus.Histogram
	graphVertices  prometheus.Histogram
	graphEdges     prometheus.Histogram

	cacheOps *prometheus.CounterVec // by key_type and result

	fetchTotal    *prometheus.CounterVec // by host and status
	fetchDuration *prometheus.HistogramVec

	serverRequests *prometheus.CounterVec // by method, route and status
	serverDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors on a fresh registry that also
// carries the Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sizeBuckets := prometheus.ExponentialBuckets(1<<10, 4, 10) // 1KiB .. 256GiB
	countBuckets := prometheus.ExponentialBuckets(10, 10, 9)  // 10 .. 10^9

	m := &Prometheus{
		registry: reg,

		decodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "total",
			Help:      "Decoded gt payloads by compression and outcome code",
		}, []string{"compression", "code"}),

		decodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Time spent decompressing and parsing",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"compression"}),

		decodedBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "decompressed_bytes",
			Help:      "Size of decompressed gt buffers",
			Buckets:   sizeBuckets,
		}),

		graphVertices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "vertices",
			Help:      "Vertex count of decoded graphs",
			Buckets:   countBuckets,
		}),

		graphEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Edge count of decoded graphs",
			Buckets:   countBuckets,
		}),

		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result (hit, miss, set)",
		}, []string{"key_type", "result"}),

		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Outgoing fetches by host and status (HTTP code or \"error\")",
		}, []string{"host", "status"}),

		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time to first response byte of outgoing fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),

		serverRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Handled API requests by method, route and status",
		}, []string{"method", "route", "status"}),

		serverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.decodesTotal, m.decodeDuration, m.decodedBytes, m.graphVertices, m.graphEdges,
		m.cacheOps, m.fetchTotal, m.fetchDuration, m.serverRequests, m.serverDuration,
	)
	return m
}

// Install registers m as the global hook implementation for every category.
func (m *Prometheus) Install() {
	SetDecodeHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
	SetServerHooks(m)
}

// Registry returns the registry holding m's collectors.
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Prometheus) OnDecodeStart(context.Context, string, int) {}

func (m *Prometheus) OnDecodeComplete(_ context.Context, _ string, stats DecodeStats, err error) {
	code := "ok"
	if err != nil {
		code = string(errors.GetCode(err))
		if code == "" {
			code = "unknown"
		}
	}
	m.decodesTotal.WithLabelValues(stats.Compression, code).Inc()
	m.decodeDuration.WithLabelValues(stats.Compression).Observe(stats.Duration.Seconds())
	if err != nil {
		return
	}
	m.decodedBytes.Observe(float64(stats.DecodedBytes))
	m.graphVertices.Observe(float64(stats.Vertices))
	m.graphEdges.Observe(float64(stats.Edges))
}

func (m *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Prometheus) OnRequest(context.Context, string, string, string) {}

func (m *Prometheus) OnResponse(_ context.Context, _, host, _ string, statusCode int, duration time.Duration) {
	m.fetchTotal.WithLabelValues(host, strconv.Itoa(statusCode)).Inc()
	m.fetchDuration.WithLabelValues(host).Observe(duration.Seconds())
}

func (m *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	m.fetchTotal.WithLabelValues(host, "error").Inc()
}

func (m *Prometheus) OnServerRequest(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	m.serverRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.serverDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ DecodeHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
	_ ServerHooks = (*Prometheus)(nil)
)
