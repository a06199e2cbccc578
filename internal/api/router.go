package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/contractpulse/internal/middleware"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
//
// Fields:
//   - RateLimitPerMinute: requests per client IP per minute (0 disables).
//   - RequestTimeout: per-request context deadline (defaults to 10s).
//   - Metrics: request observer; when it is also an http.Handler it is
//     mounted at /metrics.
type RouterOptions struct {
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	Metrics            middleware.RequestObserver
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter, Metrics).
//   - Adds request timeout handling.
//   - Mounts Swagger docs (/swagger/*any) and the Prometheus scrape endpoint (/metrics).
//   - Configures API v1 routes (/api/v1/quality/...).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateLimitPerMinute),
	)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	// ─── Timeout ──────────────────────────────────
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Metrics ──────────────────────────────────
	if h, ok := opts.Metrics.(interface{ Handler() http.Handler }); ok {
		router.GET("/metrics", gin.WrapH(h.Handler()))
	}

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		q := v1.Group("/quality")
		q.GET("/overview", handler.GetOverview)
		q.GET("/distribution", handler.GetDistribution)
		q.GET("/suppliers", handler.GetSuppliers)
		q.GET("/risk", handler.GetRiskBreakdown)
		q.GET("/dashboard", handler.GetDashboard)
	}

	return router
}
