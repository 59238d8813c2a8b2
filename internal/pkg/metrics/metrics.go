package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "guardify",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "guardify",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// People feed metrics
	SnapshotsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "feed",
		Name:      "snapshots_ingested_total",
		Help:      "Total people snapshots ingested from the positions feed",
	})

	PeopleTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "feed",
		Name:      "people_tracked",
		Help:      "People present in the latest snapshot",
	})

	FeedPollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "guardify",
		Subsystem: "feed",
		Name:      "poll_duration_seconds",
		Help:      "Duration of people feed polls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	FeedPollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "feed",
		Name:      "poll_errors_total",
		Help:      "Total people feed poll errors",
	})

	// Safety metrics
	RoutesScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "scoring",
		Name:      "routes_scored_total",
		Help:      "Total route candidates scored",
	})

	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "guardify",
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Duration of a full plan-and-score pass",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	FenceTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "geofence",
		Name:      "transitions_total",
		Help:      "Total geofence enter/exit transitions observed",
	}, []string{"direction"})

	AlertsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "alerts",
		Name:      "recorded_total",
		Help:      "Total safety alerts recorded",
	}, []string{"kind"})

	ChatExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "chat",
		Name:      "exchanges_total",
		Help:      "Total chat exchanges proxied to the assistant",
	}, []string{"malicious"})

	NavigationSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "navigation",
		Name:      "active_sessions",
		Help:      "Current number of active navigation sessions",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardify",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "guardify",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool metrics from pgx pool stats.
func UpdateDBPoolMetrics(stat interface{}) {
	// Use a small interface so the metrics package does not import pgxpool.
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
