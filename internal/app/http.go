package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	httpserver "github.com/yungbote/coincollector-backend/internal/http"
	httpH "github.com/yungbote/coincollector-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coincollector-backend/internal/http/middleware"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

func dbPing(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireRouterConfig(cfg Config, log *logger.Logger, db *gorm.DB, svc Services, metrics *observability.Metrics) (httpserver.RouterConfig, error) {
	log.Info("Wiring handlers...")
	loginLimiter, err := httpMW.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return httpserver.RouterConfig{}, fmt.Errorf("login rate limit %q: %w", cfg.LoginRateLimit, err)
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.ServiceName
	}
	return httpserver.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		LoginLimiter:      loginLimiter,
		SessionAuth:       httpMW.NewSessionAuth(log, svc.Auth, cfg.SessionCookie),
		HealthHandler:     httpH.NewHealthHandler(dbPing(db)),
		AuthHandler:       httpH.NewAuthHandler(log, svc.Auth, httpH.CookieConfig{Name: cfg.SessionCookie, Secure: cfg.CookieSecure}),
		GroupHandler:      httpH.NewGroupHandler(log, svc.Library),
		CollectionHandler: httpH.NewCollectionHandler(log, svc.Library),
		CoinHandler:       httpH.NewCoinHandler(log, svc.Library),
	}, nil
}
