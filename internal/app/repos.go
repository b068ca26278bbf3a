package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type Repos struct {
	Users       repos.UserRepo
	Groups      repos.GroupRepo
	Collections repos.CollectionRepo
	Coins       repos.CoinRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Users:       repos.NewUserRepo(db, log),
		Groups:      repos.NewGroupRepo(db, log),
		Collections: repos.NewCollectionRepo(db, log),
		Coins:       repos.NewCoinRepo(db, log),
	}
}

// Storage is the aggregate layer on top of the repos.
type Storage struct {
	Runner      aggregates.TxRunner
	Users       aggregates.UserStorage
	Groups      aggregates.GroupStorage
	Collections aggregates.CollectionStorage
	Coins       aggregates.CoinStorage
}

func wireStorage(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics) Storage {
	log.Info("Wiring storage...", "tx_attempts", cfg.TxAttempts)
	runner := aggregates.NewGormTxRunner(db,
		aggregates.WithAttempts(cfg.TxAttempts),
		aggregates.WithBackoff(cfg.TxBackoff),
	)
	deps := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: runner,
		Hooks:  aggregates.NewObservabilityHooks(metrics, log),
	}
	coins := aggregates.NewCoinStorage(deps, r.Coins)
	collections := aggregates.NewCollectionStorage(deps, r.Collections, coins)
	return Storage{
		Runner:      runner,
		Users:       aggregates.NewUserStorage(deps, r.Users),
		Groups:      aggregates.NewGroupStorage(deps, r.Groups, collections),
		Collections: collections,
		Coins:       coins,
	}
}
