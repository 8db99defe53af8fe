// Package metrics owns the prometheus registry for cache and http instrumentation
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"mgnrega/internal/platform/cache"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mgnrega"

// Recorder satisfies cache.Observer and the access log observe hook
type Recorder struct {
	reg *prometheus.Registry

	cacheRequests *prometheus.CounterVec
	computeSecs   prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpSecs      *prometheus.HistogramVec
	buildInfo     *prometheus.GaugeVec
}

var _ cache.Observer = (*Recorder)(nil)

// New registers every collector on a fresh registry, plus go and process collectors
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by outcome (hit, miss, stale, error)",
		}, []string{"result"}),
		computeSecs: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_seconds",
			Help:      "Time spent computing a cache entry, fetch and aggregation included",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~41s
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status",
		}, []string{"method", "route", "status"}),
		httpSecs: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP latency by route template",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		buildInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build metadata, value is always 1",
		}, []string{"service", "version", "commit"}),
	}
}

// CacheResult counts one cache lookup
func (r *Recorder) CacheResult(res cache.Result) {
	r.cacheRequests.WithLabelValues(string(res)).Inc()
}

// ComputeDuration observes one entry computation
func (r *Recorder) ComputeDuration(d time.Duration) {
	r.computeSecs.Observe(d.Seconds())
}

// ObserveHTTP matches middleware.AccessLogOptions.Observe
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpSecs.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetBuildInfo publishes the running build
func (r *Recorder) SetBuildInfo(service, version, commit string) {
	r.buildInfo.WithLabelValues(service, version, commit).Set(1)
}

// Registry exposes the registry for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
