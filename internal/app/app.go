package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coincollector-backend/internal/data/db"
	httpserver "github.com/yungbote/coincollector-backend/internal/http"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/envutil"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

// Core is the part of the app shared by the server and the import tool:
// logging, config, database and storage.
type Core struct {
	Log     *logger.Logger
	Cfg     Config
	DB      *gorm.DB
	Metrics *observability.Metrics
	Repos   Repos
	Storage Storage

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

type App struct {
	*Core
	Clients  Clients
	Services Services
	Server   *httpserver.Server

	cancel context.CancelFunc
}

// NewCore loads config, connects and migrates the database and wires storage.
func NewCore(ctx context.Context) (*Core, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	envutil.LoadDotEnv(log)
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.SessionSecret == defaultSessionSecret {
		log.Warn("SESSION_SECRET not set, using development secret")
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log)

	dbService, err := db.New(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	metrics.RegisterDBStats(log, theDB, dbService.Driver())

	reposet := wireRepos(theDB, log)
	return &Core{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Metrics:      metrics,
		Repos:        reposet,
		Storage:      wireStorage(theDB, log, cfg, reposet, metrics),
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

func (c *Core) Close() {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if c.otelShutdown != nil {
		if err := c.otelShutdown(ctx); err != nil {
			c.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if c.dbService != nil {
		if err := c.dbService.Close(); err != nil {
			c.Log.Warn("Database close failed", "error", err)
		}
	}
	c.Log.Sync()
}

func New(ctx context.Context) (*App, error) {
	core, err := NewCore(ctx)
	if err != nil {
		return nil, err
	}
	cfg, log := core.Cfg, core.Log

	clients, err := wireClients(cfg, log)
	if err != nil {
		core.Close()
		return nil, err
	}
	sessions := wireSessionStore(cfg, log, clients)
	serviceset := wireServices(cfg, log, core.Storage, sessions)

	routerCfg, err := wireRouterConfig(cfg, log, core.DB, serviceset, core.Metrics)
	if err != nil {
		clients.Close()
		core.Close()
		return nil, err
	}
	return &App{
		Core:     core,
		Clients:  clients,
		Services: serviceset,
		Server:   httpserver.NewServer(cfg.HTTPAddr, routerCfg),
	}, nil
}

// Run serves HTTP until ctx is done, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	defer cancel()

	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(runCtx, a.Log, a.Clients.Redis)
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		errCh <- a.Server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-runCtx.Done():
	}

	a.Log.Info("Shutting down HTTP server...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	a.Core.Close()
}
