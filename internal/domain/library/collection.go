package library

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Collection struct {
	ID      string `gorm:"primaryKey;column:id" json:"id"`
	Name    string `gorm:"not null;column:name" json:"name"`
	GroupID string `gorm:"not null;index;column:group_id" json:"groupId"`

	Coins []*Coin `gorm:"-" json:"coins"`
}

func (Collection) TableName() string { return "collections" }

// NewCollection builds an empty collection with a fresh id.
func NewCollection(name, groupID string) (*Collection, error) {
	c := &Collection{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		GroupID: strings.TrimSpace(groupID),
		Coins:   []*Coin{},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// AddCoin attaches coin and points its collection id at c. A derived coin
// id is re-derived for the new collection.
func (c *Collection) AddCoin(coin *Coin) {
	if coin == nil {
		return
	}
	if coin.ID == "" || coin.ID == CoinID(coin.CollectionID, coin.Country, coin.Value, coin.Year, coin.Mint) {
		coin.ID = CoinID(c.ID, coin.Country, coin.Value, coin.Year, coin.Mint)
	}
	coin.CollectionID = c.ID
	c.Coins = append(c.Coins, coin)
}

// TotalValue sums the face value of all coins in cents.
func (c *Collection) TotalValue() int {
	total := 0
	for _, coin := range c.Coins {
		if coin != nil {
			total += coin.Value.Cents()
		}
	}
	return total
}

// Validate checks the collection and every attached coin. Coins must point
// back at this collection.
func (c *Collection) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: collection is nil", ErrInvalid)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: collection id is blank", ErrInvalid)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: collection name is blank", ErrInvalid)
	}
	if strings.TrimSpace(c.GroupID) == "" {
		return fmt.Errorf("%w: collection %s has no group", ErrInvalid, c.ID)
	}
	for _, coin := range c.Coins {
		if err := coin.Validate(); err != nil {
			return err
		}
		if coin.CollectionID != c.ID {
			return fmt.Errorf("%w: coin %s belongs to collection %s, not %s", ErrInvalid, coin.ID, coin.CollectionID, c.ID)
		}
	}
	return nil
}
