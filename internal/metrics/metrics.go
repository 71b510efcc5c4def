package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placementprep",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"service", "method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "placementprep",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "placementprep",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	}, []string{"service"})

	generationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placementprep",
		Name:      "generation_outcomes_total",
		Help:      "Generation attempts by provider, model, and outcome",
	}, []string{"provider", "model", "outcome"})

	generationExhaustions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "placementprep",
		Name:      "generation_exhaustions_total",
		Help:      "Calls where every provider in the fallback chain failed",
	})

	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "placementprep",
		Name:      "sessions_expired_total",
		Help:      "Sessions force-completed after breaching their time limit",
	})
)

// GenerationOutcome records one provider attempt.
func GenerationOutcome(provider, model, outcome string) {
	generationOutcomes.WithLabelValues(provider, model, outcome).Inc()
}

// GenerationExhausted records a call where both providers were exhausted.
func GenerationExhausted() {
	generationExhaustions.Inc()
}

// SessionExpired records a time-limit force-completion.
func SessionExpired() {
	sessionsExpired.Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records request metrics with Prometheus labels.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.WithLabelValues(service).Inc()
			defer httpInFlight.WithLabelValues(service).Dec()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"service": service,
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
