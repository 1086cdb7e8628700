package server

import (
	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/auth"
	"resumeboost-backend/internal/exports"
	"resumeboost-backend/internal/projects"
	"resumeboost-backend/internal/services/health"
	"resumeboost-backend/internal/shared/config"
	"resumeboost-backend/internal/shared/metrics"
	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/server/respond"
	"resumeboost-backend/internal/tasks"
	"resumeboost-backend/internal/usage"
	"resumeboost-backend/internal/users"
)

// otpSendRule allows a burst of 5 passcode sends, refilled at one per 12s.
var otpSendRule = middleware.RateLimitRule{Rate: 1.0 / 12.0, Burst: 5}

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config         config.Config
	Verifier       middleware.TokenVerifier
	Health         *health.Service
	RateLimiter    *middleware.RateLimiter
	AuthHandler    *auth.Handler
	UserHandler    *users.Handler
	ProjectHandler *projects.Handler
	ExportHandler  *exports.Handler
	TaskHandler    *tasks.Handler
	UsageHandler   *usage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Verifier, middleware.DefaultPublicPaths),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    map[string]middleware.RateLimitRule{middleware.OTPRateLimitGroup: otpSendRule},
			GroupFor: middleware.OTPGroupFor,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil, nil)
	}
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status(c.Request.Context()))
	})

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
