package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	repotest "github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	users       aggregates.UserStorage
	groups      aggregates.GroupStorage
	collections aggregates.CollectionStorage
	coins       aggregates.CoinStorage
	sessions    *memorySessionStore
	auth        *authService
	authz       Authorizer
	lib         LibraryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	deps := aggregates.BaseDeps{DB: db, Log: log}

	coins := aggregates.NewCoinStorage(deps, repos.NewCoinRepo(db, log))
	collections := aggregates.NewCollectionStorage(deps, repos.NewCollectionRepo(db, log), coins)
	groups := aggregates.NewGroupStorage(deps, repos.NewGroupRepo(db, log), collections)
	users := aggregates.NewUserStorage(deps, repos.NewUserRepo(db, log))

	sessions := newMemorySessionStore(time.Hour, time.Now)
	auth := NewAuthService(log, users, sessions, "test-secret", time.Hour).(*authService)
	auth.bcryptCost = bcrypt.MinCost
	authz := NewAuthorizer(log, groups, collections, coins)

	return &fixture{
		db:          db,
		users:       users,
		groups:      groups,
		collections: collections,
		coins:       coins,
		sessions:    sessions,
		auth:        auth,
		authz:       authz,
		lib:         NewLibraryService(log, aggregates.NewGormTxRunner(db), authz, groups, collections, coins),
	}
}

func bg() context.Context { return context.Background() }

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
