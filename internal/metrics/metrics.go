package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "minutes"

// HTTP metrics, recorded by InstrumentHandler.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "path_pattern", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path_pattern"})
)

// Pipeline metrics.
var (
	SummariesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summaries_total",
		Help:      "Summarization requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	SummaryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "summary_duration_seconds",
		Help:      "Summarization latency including the provider call.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s → ~4m
	}, []string{"provider"})

	TranscriptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transcriptions_total",
		Help:      "Transcription jobs by engine and outcome.",
	}, []string{"engine", "outcome"})

	TranscriptionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transcription_duration_seconds",
		Help:      "Wall time spent transcribing one recording.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s → ~34m
	}, []string{"engine"})

	JobsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "transcription_jobs_in_flight",
		Help:      "Transcription jobs currently holding a worker slot.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SummariesTotal,
		SummaryDuration,
		TranscriptionsTotal,
		TranscriptionDuration,
		JobsInFlight,
	)
}

// ObserveSummary records one finished summarization request.
func ObserveSummary(provider, outcome string, d time.Duration) {
	if provider == "" {
		provider = "unknown"
	}
	SummariesTotal.WithLabelValues(provider, outcome).Inc()
	SummaryDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveTranscription records one finished transcription job.
func ObserveTranscription(engine string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	TranscriptionsTotal.WithLabelValues(engine, outcome).Inc()
	TranscriptionDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// InstrumentHandler returns middleware that records HTTP request metrics.
// The chi route pattern is used as the path label to keep cardinality bounded.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		pattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
