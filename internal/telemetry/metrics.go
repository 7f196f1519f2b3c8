package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stockprovider/internal/provider"
)

var (
	providerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockprovider",
			Name:      "provider_requests_total",
			Help:      "Upstream provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockprovider",
			Name:      "http_requests_total",
			Help:      "API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stockprovider",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// ObserveProvider records the outcome of one upstream call.
func ObserveProvider(name string, err error) {
	outcome := OutcomeOK
	switch {
	case provider.IsRateLimited(err):
		outcome = OutcomeRateLimited
	case err != nil:
		outcome = OutcomeError
	}
	providerRequests.WithLabelValues(name, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request volume and latency per route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := requestRoute(r)
		httpRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func requestRoute(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil && tpl != "" {
			return tpl
		}
	}
	return strings.TrimSpace(r.URL.Path)
}
