package group

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

func TestGroupRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewGroupRepo(db, testutil.Logger(t))
	dbc := dbctx.WithTx(context.Background(), tx)

	mine := &types.Group{ID: "g1", Name: "Euro", OwnerID: "u1"}
	other := &types.Group{ID: "g2", Name: "Andere", OwnerID: "u2"}
	for _, g := range []*types.Group{mine, other} {
		if err := repo.Create(dbc, g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	owned, err := repo.GetAllByOwner(dbc, "u1")
	if err != nil || len(owned) != 1 || owned[0].ID != "g1" {
		t.Fatalf("GetAllByOwner: got=%v err=%v", owned, err)
	}
	if owned[0].Collections == nil {
		t.Fatalf("GetAllByOwner: collections should be an empty list")
	}

	if err := repo.UpdateName(dbc, "g1", "Euromünzen"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	got, err := repo.Read(dbc, "g1")
	if err != nil || got == nil || got.Name != "Euromünzen" || got.OwnerID != "u1" {
		t.Fatalf("Read: got=%+v err=%v", got, err)
	}
	if err := repo.UpdateName(dbc, "missing", "x"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdateName missing: want ErrRecordNotFound got=%v", err)
	}

	all, err := repo.GetAll(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAll: want 2 got=%d err=%v", len(all), err)
	}
	if err := repo.Delete(dbc, "g2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err := repo.Exists(dbc, "g2")
	if err != nil || exists {
		t.Fatalf("Exists after delete: want false got=%v err=%v", exists, err)
	}
}
