package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/coincollector-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	repotest "github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected failure")

type storageFixture struct {
	db          *gorm.DB
	hooks          *aggtest.HooksRecorder
	coinRepo       *faultyCoinRepo
	collectionRepo *faultyCollectionRepo
	groupRepo      *faultyGroupRepo
	coins          aggregates.CoinStorage
	collections    aggregates.CollectionStorage
	groups         aggregates.GroupStorage
	users          aggregates.UserStorage
}

// newStorageFixture wires every storage service on a private sqlite
// database. A nil runner means real gorm transactions.
func newStorageFixture(t *testing.T, runner aggregates.TxRunner) *storageFixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	if runner == nil {
		runner = aggregates.NewGormTxRunner(db)
	}
	hooks := &aggtest.HooksRecorder{}
	deps := aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks}

	coinRepo := &faultyCoinRepo{CoinRepo: repos.NewCoinRepo(db, log)}
	collectionRepo := &faultyCollectionRepo{CollectionRepo: repos.NewCollectionRepo(db, log)}
	groupRepo := &faultyGroupRepo{GroupRepo: repos.NewGroupRepo(db, log)}
	coins := aggregates.NewCoinStorage(deps, coinRepo)
	collections := aggregates.NewCollectionStorage(deps, collectionRepo, coins)
	return &storageFixture{
		db:             db,
		hooks:          hooks,
		coinRepo:       coinRepo,
		collectionRepo: collectionRepo,
		groupRepo:      groupRepo,
		coins:          coins,
		collections:    collections,
		groups:         aggregates.NewGroupStorage(deps, groupRepo, collections),
		users:          aggregates.NewUserStorage(deps, repos.NewUserRepo(db, log)),
	}
}

func self() dbctx.Context { return dbctx.New(context.Background()) }

// faultyCoinRepo fails selected operations on demand.
type faultyCoinRepo struct {
	repos.CoinRepo

	failCreate error
	failUpdate error
	failDelete error
	failRead   error
	failList   error
	// missExisting makes Exists report false for rows that are present, as
	// when a concurrent insert lands between the check and the insert.
	missExisting bool
}

func (r *faultyCoinRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	if r.missExisting {
		return false, nil
	}
	return r.CoinRepo.Exists(dbc, id)
}

func (r *faultyCoinRepo) Create(dbc dbctx.Context, coin *types.Coin) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	return r.CoinRepo.Create(dbc, coin)
}

func (r *faultyCoinRepo) Update(dbc dbctx.Context, coin *types.Coin) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	return r.CoinRepo.Update(dbc, coin)
}

func (r *faultyCoinRepo) Delete(dbc dbctx.Context, id string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	return r.CoinRepo.Delete(dbc, id)
}

func (r *faultyCoinRepo) Read(dbc dbctx.Context, id string) (*types.Coin, error) {
	if r.failRead != nil {
		return nil, r.failRead
	}
	return r.CoinRepo.Read(dbc, id)
}

func (r *faultyCoinRepo) GetAll(dbc dbctx.Context) ([]*types.Coin, error) {
	if r.failList != nil {
		return nil, r.failList
	}
	return r.CoinRepo.GetAll(dbc)
}

func (r *faultyCoinRepo) GetByCollectionIDs(dbc dbctx.Context, ids []string) ([]*types.Coin, error) {
	if r.failList != nil {
		return nil, r.failList
	}
	return r.CoinRepo.GetByCollectionIDs(dbc, ids)
}

// faultyCollectionRepo fails selected operations on demand.
type faultyCollectionRepo struct {
	repos.CollectionRepo

	failRead     error
	failUpdate   error
	failDelete   error
	missExisting bool
}

func (r *faultyCollectionRepo) Read(dbc dbctx.Context, id string) (*types.Collection, error) {
	if r.failRead != nil {
		return nil, r.failRead
	}
	return r.CollectionRepo.Read(dbc, id)
}

func (r *faultyCollectionRepo) UpdateMetadata(dbc dbctx.Context, collection *types.Collection) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	return r.CollectionRepo.UpdateMetadata(dbc, collection)
}

func (r *faultyCollectionRepo) Delete(dbc dbctx.Context, id string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	return r.CollectionRepo.Delete(dbc, id)
}

func (r *faultyCollectionRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	if r.missExisting {
		return false, nil
	}
	return r.CollectionRepo.Exists(dbc, id)
}

// faultyGroupRepo fails reads on demand. The next vanishReads reads find
// nothing, as when the row is deleted right after a conflicting insert.
type faultyGroupRepo struct {
	repos.GroupRepo

	failRead    error
	vanishReads int
}

func (r *faultyGroupRepo) Read(dbc dbctx.Context, id string) (*types.Group, error) {
	if r.failRead != nil {
		return nil, r.failRead
	}
	if r.vanishReads > 0 {
		r.vanishReads--
		return nil, nil
	}
	return r.GroupRepo.Read(dbc, id)
}

// mustCoin builds a coin; an empty collection id leaves it to AddCoin.
func mustCoin(t *testing.T, collectionID string, year, value int, country, mint string) *types.Coin {
	t.Helper()
	if collectionID == "" {
		collectionID = "pending"
	}
	c, err := types.NewCoin(types.CoinSpec{Year: year, Value: value, Country: country, Mint: mint, CollectionID: collectionID})
	if err != nil {
		t.Fatalf("NewCoin: %v", err)
	}
	return c
}

func mustGroup(t *testing.T, name, owner string) *types.Group {
	t.Helper()
	g, err := types.NewGroup(name, owner)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	return g
}

func mustCollection(t *testing.T, name, groupID string, coins ...*types.Coin) *types.Collection {
	t.Helper()
	c, err := types.NewCollection(name, groupID)
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	for _, coin := range coins {
		c.AddCoin(coin)
	}
	return c
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
