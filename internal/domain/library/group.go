package library

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Group struct {
	ID      string `gorm:"primaryKey;column:id" json:"id"`
	Name    string `gorm:"not null;column:name" json:"name"`
	OwnerID string `gorm:"not null;index;column:owner_id" json:"-"`

	Collections []*Collection `gorm:"-" json:"collections"`
}

func (Group) TableName() string { return "collection_groups" }

// NewGroup builds an empty group with a fresh id.
func NewGroup(name, ownerID string) (*Group, error) {
	g := &Group{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		OwnerID:     strings.TrimSpace(ownerID),
		Collections: []*Collection{},
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddCollection attaches c and points its group id at g.
func (g *Group) AddCollection(c *Collection) {
	if c == nil {
		return
	}
	c.GroupID = g.ID
	g.Collections = append(g.Collections, c)
}

func (g *Group) TotalValue() int {
	total := 0
	for _, c := range g.Collections {
		if c != nil {
			total += c.TotalValue()
		}
	}
	return total
}

func (g *Group) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: group is nil", ErrInvalid)
	}
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("%w: group id is blank", ErrInvalid)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: group name is blank", ErrInvalid)
	}
	if strings.TrimSpace(g.OwnerID) == "" {
		return fmt.Errorf("%w: group %s has no owner", ErrInvalid, g.ID)
	}
	for _, c := range g.Collections {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.GroupID != g.ID {
			return fmt.Errorf("%w: collection %s belongs to group %s, not %s", ErrInvalid, c.ID, c.GroupID, g.ID)
		}
	}
	return nil
}
