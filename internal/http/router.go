package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coincollector-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coincollector-backend/internal/http/middleware"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	LoginLimiter *limiter.Limiter
	SessionAuth  *httpMW.SessionAuth

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	GroupHandler      *httpH.GroupHandler
	CollectionHandler *httpH.CollectionHandler
	CoinHandler       *httpH.CoinHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	if err := httpH.RegisterValidators(); err != nil {
		log.Warn("Custom binding validators unavailable", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", httpMW.RateLimit(log, cfg.LoginLimiter), cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.SessionAuth != nil {
			protected.Use(cfg.SessionAuth.RequireSession())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Groups
		if cfg.GroupHandler != nil {
			protected.GET("/groups", cfg.GroupHandler.List)
			protected.POST("/groups", cfg.GroupHandler.Create)
			protected.GET("/groups/:id", cfg.GroupHandler.Get)
			protected.PATCH("/groups/:id", cfg.GroupHandler.Rename)
			protected.DELETE("/groups/:id", cfg.GroupHandler.Delete)
		}

		// Collections
		if cfg.CollectionHandler != nil {
			protected.POST("/collections", cfg.CollectionHandler.Create)
			protected.GET("/collections/:id", cfg.CollectionHandler.Get)
			protected.PATCH("/collections/:id", cfg.CollectionHandler.Update)
			protected.DELETE("/collections/:id", cfg.CollectionHandler.Delete)
		}

		// Coins
		if cfg.CoinHandler != nil {
			protected.POST("/coins", cfg.CoinHandler.Create)
			protected.GET("/coins/:id", cfg.CoinHandler.Get)
			protected.PATCH("/coins/:id", cfg.CoinHandler.Update)
			protected.DELETE("/coins/:id", cfg.CoinHandler.Delete)
		}
	}

	return r
}
