package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the HTTP surface and the
// background jobs.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	jobRuns         *prometheus.CounterVec
	jobFailures     *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

// NewMetrics initialises the registry and base collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_jobs_total",
		Help: "Background job runs by task type.",
	}, []string{"job"})
	jobFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_jobs_failures_total",
		Help: "Background job failures by task type.",
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_jobs_duration_seconds",
		Help:    "Background job duration by task type.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	registry.MustRegister(requests, duration, jobRuns, jobFailures, jobDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		jobRuns:         jobRuns,
		jobFailures:     jobFailures,
		jobDuration:     jobDuration,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// TrackJob starts instrumentation for one background job run.
func (m *Metrics) TrackJob(job string) *JobTracker {
	return &JobTracker{metrics: m, job: job, start: time.Now()}
}

// JobTracker measures a single job run.
type JobTracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// End records the outcome and returns err unchanged so callers can defer it.
func (t *JobTracker) End(err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	t.metrics.jobRuns.WithLabelValues(t.job).Inc()
	t.metrics.jobDuration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	if err != nil {
		t.metrics.jobFailures.WithLabelValues(t.job).Inc()
	}
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
