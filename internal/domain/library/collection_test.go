package library

import (
	"errors"
	"testing"
)

func TestCollectionAddCoinRederivesID(t *testing.T) {
	col, err := NewCollection("Euro Starter", "g1")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	coin, err := NewCoin(CoinSpec{Year: 2002, Value: 100, Country: "DE", Mint: "A", CollectionID: "staging"})
	if err != nil {
		t.Fatalf("NewCoin: %v", err)
	}
	col.AddCoin(coin)

	if coin.CollectionID != col.ID {
		t.Fatalf("collection id: want=%s got=%s", col.ID, coin.CollectionID)
	}
	if coin.ID != CoinID(col.ID, Germany, OneEuro, 2002, MintBerlin) {
		t.Fatalf("coin id not re-derived: %s", coin.ID)
	}
	if err := col.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if col.TotalValue() != 100 {
		t.Fatalf("TotalValue: want=100 got=%d", col.TotalValue())
	}
}

func TestCollectionValidateRejectsForeignCoin(t *testing.T) {
	col, _ := NewCollection("A", "g1")
	coin, _ := NewCoin(CoinSpec{Year: 2004, Value: 20, Country: "NL", CollectionID: "other"})
	col.Coins = append(col.Coins, coin)
	if err := col.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("foreign coin: want ErrInvalid got=%v", err)
	}
}

func TestNewCollectionRequiresGroup(t *testing.T) {
	if _, err := NewCollection("A", ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank group: want ErrInvalid got=%v", err)
	}
	if _, err := NewCollection(" ", "g1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank name: want ErrInvalid got=%v", err)
	}
}

func TestGroupAddCollectionAndValidate(t *testing.T) {
	g, err := NewGroup("TestGroup", "u1")
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	col, _ := NewCollection("C1", "elsewhere")
	g.AddCollection(col)
	if col.GroupID != g.ID {
		t.Fatalf("group id: want=%s got=%s", g.ID, col.GroupID)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	col.GroupID = "other"
	if err := g.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("foreign collection: want ErrInvalid got=%v", err)
	}
	if _, err := NewGroup("G", ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank owner: want ErrInvalid got=%v", err)
	}
}
