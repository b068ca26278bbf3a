package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

func TestCollectionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCollectionRepo(db, testutil.Logger(t))
	dbc := dbctx.WithTx(context.Background(), tx)

	a := &types.Collection{ID: "c1", Name: "Starter", GroupID: "g1"}
	b := &types.Collection{ID: "c2", Name: "Gedenk", GroupID: "g2"}
	for _, c := range []*types.Collection{a, b} {
		if err := repo.Create(dbc, c); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(dbc, &types.Collection{ID: "c1", Name: "dup", GroupID: "g1"}); err == nil {
		t.Fatalf("Create duplicate: want error")
	}

	got, err := repo.Read(dbc, "c1")
	if err != nil || got == nil || got.Name != "Starter" || got.Coins == nil {
		t.Fatalf("Read: got=%+v err=%v", got, err)
	}

	a.Name = "Renamed"
	a.GroupID = "g2"
	if err := repo.UpdateMetadata(dbc, a); err != nil {
		t.Fatalf("UpdateMetadata: %v", err)
	}
	byGroup, err := repo.GetByGroupIDs(dbc, []string{"g2"})
	if err != nil || len(byGroup) != 2 {
		t.Fatalf("GetByGroupIDs: want 2 got=%d err=%v", len(byGroup), err)
	}
	if err := repo.UpdateMetadata(dbc, &types.Collection{ID: "missing", Name: "x", GroupID: "g"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdateMetadata missing: want ErrRecordNotFound got=%v", err)
	}

	if err := repo.Delete(dbc, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err := repo.Exists(dbc, "c1")
	if err != nil || exists {
		t.Fatalf("Exists after delete: want false got=%v err=%v", exists, err)
	}
	all, err := repo.GetAll(dbc)
	if err != nil || len(all) != 1 {
		t.Fatalf("GetAll: want 1 got=%d err=%v", len(all), err)
	}
}
