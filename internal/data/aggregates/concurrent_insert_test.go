package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
)

// The tests below make Exists miss rows that are already stored, so the
// insert itself hits the primary key like a concurrent writer would.

func TestCoinStorageInsertRacingWriter(t *testing.T) {
	f := newStorageFixture(t, nil)
	coin := mustCoin(t, "c1", 2002, 1, "PT", "")
	if err := f.coins.Save(self(), coin); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.coinRepo.missExisting = true

	if err := f.coins.Save(self(), coin); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("Save over stored row: want=%s got=%v", domainagg.CodeConflict, err)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(context.Background(), tx)
		outcome, err := f.coins.Insert(dbc, coin)
		if err != nil {
			return err
		}
		if outcome != domainagg.AlreadyExisted {
			t.Fatalf("Insert outcome: want=%s got=%s", domainagg.AlreadyExisted, outcome)
		}
		return f.coins.Save(dbc, mustCoin(t, "c1", 2003, 2, "PT", ""))
	})
	if err != nil {
		t.Fatalf("caller transaction: %v", err)
	}
	if n := countRows(t, f.db, &types.Coin{}); n != 2 {
		t.Fatalf("coins: want=2 got=%d", n)
	}
}

func TestCollectionStorageInsertRacingWriter(t *testing.T) {
	f := newStorageFixture(t, nil)
	stored := &types.Collection{ID: "c1", Name: "Stored", GroupID: "g1", Coins: []*types.Coin{mustCoin(t, "c1", 2002, 1, "SK", "")}}
	if err := f.collections.Save(self(), stored); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.collectionRepo.missExisting = true

	again := &types.Collection{ID: "c1", Name: "Again", GroupID: "g1", Coins: []*types.Coin{mustCoin(t, "c1", 2009, 2, "SK", "")}}
	if err := f.collections.Save(self(), again); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("Save over stored row: want=%s got=%v", domainagg.CodeConflict, err)
	}
	if n := countRows(t, f.db, &types.Coin{}); n != 1 {
		t.Fatalf("conflicting save must not touch coins: want=1 got=%d", n)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(context.Background(), tx)
		outcome, err := f.collections.Insert(dbc, again)
		if err != nil {
			return err
		}
		if outcome != domainagg.AlreadyExisted {
			t.Fatalf("Insert outcome: want=%s got=%s", domainagg.AlreadyExisted, outcome)
		}
		return f.collections.Save(dbc, &types.Collection{ID: "c2", Name: "Later", GroupID: "g1"})
	})
	if err != nil {
		t.Fatalf("caller transaction: %v", err)
	}
	if n := countRows(t, f.db, &types.Collection{}); n != 2 {
		t.Fatalf("collections: want=2 got=%d", n)
	}
	got, err := f.collections.GetByID(self(), "c1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Stored" || len(got.Coins) != 1 {
		t.Fatalf("stored collection changed: %+v", got)
	}
}

func TestGroupStorageSaveRowVanishingAfterConflict(t *testing.T) {
	f := newStorageFixture(t, nil)
	group := mustGroup(t, "Flaky", "u1")
	if _, err := f.groups.Save(self(), group); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f.groupRepo.vanishReads = 2
	_, err := f.groups.Save(self(), group)
	if !domainagg.IsCode(err, domainagg.CodeSaveFailed) {
		t.Fatalf("code: want=%s got=%v", domainagg.CodeSaveFailed, err)
	}
	if !errors.Is(err, aggregates.ErrRetryable) {
		t.Fatalf("retryable cause: want=true got=%v", err)
	}
	if got := f.hooks.Retries(); len(got) != 1 || got[0] != "group.save" {
		t.Fatalf("retries: want=[group.save] got=%v", got)
	}

	// A runner allowed a second attempt reads the row again and succeeds.
	retrying := aggregates.NewGroupStorage(aggregates.BaseDeps{
		DB:     f.db,
		Runner: aggregates.NewGormTxRunner(f.db, aggregates.WithAttempts(2), aggregates.WithBackoff(0)),
		Hooks:  f.hooks,
	}, f.groupRepo, f.collections)
	f.groupRepo.vanishReads = 2
	outcome, err := retrying.Save(self(), group)
	if err != nil {
		t.Fatalf("Save with retries: %v", err)
	}
	if outcome != domainagg.AlreadyExisted {
		t.Fatalf("outcome: want=%s got=%s", domainagg.AlreadyExisted, outcome)
	}
	if n := countRows(t, f.db, &types.Group{}); n != 1 {
		t.Fatalf("groups: want=1 got=%d", n)
	}
}
