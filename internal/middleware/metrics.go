package middleware

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AuthResults counts authentication outcomes ("success" or "failure").
	AuthResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_auth_results_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"result"})

	// SessionOps counts session gate operations by kind (login, resolve, logout).
	SessionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_session_ops_total",
		Help: "Total number of session store operations by kind",
	}, []string{"op"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warbler_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for HTTP request metrics.
// The instance is a process-wide singleton: the underlying collectors can
// only be registered once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware returns the request-metrics handler for the given instance.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
