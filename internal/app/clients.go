package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coincollector-backend/internal/clients/redis"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

type Clients struct {
	// Redis is nil unless sessions live in redis.
	Redis *goredis.Client
}

func wireClients(cfg Config, log *logger.Logger) (Clients, error) {
	var out Clients
	if cfg.SessionStore != SessionStoreRedis {
		return out, nil
	}
	rdb, err := redis.NewClient(log, cfg.Redis)
	if err != nil {
		return out, fmt.Errorf("init redis: %w", err)
	}
	out.Redis = rdb
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

func wireSessionStore(cfg Config, log *logger.Logger, clients Clients) services.SessionStore {
	if clients.Redis != nil {
		log.Info("Sessions stored in redis", "addr", cfg.Redis.Addr)
		return redis.NewSessionStore(log, clients.Redis, cfg.SessionTTL)
	}
	log.Info("Sessions stored in memory")
	return services.NewMemorySessionStore(cfg.SessionTTL)
}
