package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipstream_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// LikeOperations counts like-ledger outcomes. Conflict and not_found are
	// expected under concurrent double-taps, so they get their own labels
	// rather than being folded into errors.
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipstream_like_operations_total",
		Help: "Like ledger operations by action and outcome",
	}, []string{"action", "outcome"})

	// FeedPagesServed counts feed pages by viewer kind.
	FeedPagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipstream_feed_pages_total",
		Help: "Feed pages served, split by anonymous vs authenticated viewers",
	}, []string{"viewer"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the given service
// name. The instance is shared; fiberprometheus registers its collectors in
// the default registry and a second registration would panic.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(service)
	})
	return promInstance
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
