package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 240 requests per minute per IP. Clients poll the people
	// snapshot every second, so the ceiling sits well above that cadence.
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Deprecated endpoints still served for old app builds
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/people/all",
			SunsetDate:  time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/people",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/people", timeout.NewWithContext(PeopleHandler(deps), 15*time.Second))
	v1.Get("/people/near", timeout.NewWithContext(NearbyPeopleHandler(deps), 15*time.Second))
	v1.Get("/people/all", timeout.NewWithContext(PeopleHandler(deps), 15*time.Second)) // deprecated alias

	v1.Get("/fence", timeout.NewWithContext(GetFenceHandler(deps), 15*time.Second))
	v1.Put("/fence", timeout.NewWithContext(UpdateFenceHandler(deps), 15*time.Second))
	v1.Get("/fence/status", timeout.NewWithContext(FenceStatusHandler(deps), 15*time.Second))

	v1.Post("/routes/plan", timeout.NewWithContext(PlanRoutesHandler(deps), 15*time.Second))
	v1.Post("/routes/score", timeout.NewWithContext(ScoreRoutesHandler(deps), 15*time.Second))

	v1.Post("/navigation/sessions", timeout.NewWithContext(StartNavigationHandler(deps), 15*time.Second))
	v1.Get("/navigation/sessions/:id", timeout.NewWithContext(GetNavigationHandler(deps), 15*time.Second))
	v1.Post("/navigation/sessions/:id/location", timeout.NewWithContext(UpdateLocationHandler(deps), 15*time.Second))
	v1.Delete("/navigation/sessions/:id", timeout.NewWithContext(StopNavigationHandler(deps), 15*time.Second))

	v1.Get("/alerts", timeout.NewWithContext(ListAlertsHandler(deps), 15*time.Second))
	v1.Get("/alerts/stats", timeout.NewWithContext(AlertStatsHandler(deps), 15*time.Second))
	v1.Get("/alerts/:id", timeout.NewWithContext(GetAlertHandler(deps), 15*time.Second))
	v1.Post("/alerts", timeout.NewWithContext(CreateAlertHandler(deps), 15*time.Second))
	v1.Post("/alerts/:id/ack", timeout.NewWithContext(AckAlertHandler(deps), 15*time.Second))

	// The assistant upstream can be slow; give chat a longer budget.
	v1.Post("/chat", timeout.NewWithContext(ChatHandler(deps), 30*time.Second))
	v1.Get("/chat/history", timeout.NewWithContext(ChatHistoryHandler(deps), 15*time.Second))

	v1.Post("/transcriptions", timeout.NewWithContext(TranscriptionHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
