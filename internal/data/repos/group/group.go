package group

import (
	"fmt"

	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type GroupRepo interface {
	Create(dbc dbctx.Context, group *types.Group) error
	Read(dbc dbctx.Context, id string) (*types.Group, error)
	// UpdateName writes the name only; the owner never changes.
	UpdateName(dbc dbctx.Context, id, name string) error
	Delete(dbc dbctx.Context, id string) error
	Exists(dbc dbctx.Context, id string) (bool, error)
	GetAll(dbc dbctx.Context) ([]*types.Group, error)
	GetAllByOwner(dbc dbctx.Context, ownerID string) ([]*types.Group, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	repoLog := baseLog.With("repo", "GroupRepo")
	return &groupRepo{db: db, log: repoLog}
}

func (r *groupRepo) Create(dbc dbctx.Context, group *types.Group) error {
	return dbc.DB(r.db).Create(group).Error
}

// Read returns nil without error when no group has the id.
func (r *groupRepo) Read(dbc dbctx.Context, id string) (*types.Group, error) {
	var rows []*types.Group
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows[0].Collections = []*types.Collection{}
	return rows[0], nil
}

func (r *groupRepo) UpdateName(dbc dbctx.Context, id, name string) error {
	res := dbc.DB(r.db).
		Model(&types.Group{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("update group %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *groupRepo) Delete(dbc dbctx.Context, id string) error {
	res := dbc.DB(r.db).
		Where("id = ?", id).
		Delete(&types.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("delete group %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *groupRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Group{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepo) GetAll(dbc dbctx.Context) ([]*types.Group, error) {
	var results []*types.Group
	if err := dbc.DB(r.db).
		Order("name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	for _, g := range results {
		g.Collections = []*types.Collection{}
	}
	return results, nil
}

func (r *groupRepo) GetAllByOwner(dbc dbctx.Context, ownerID string) ([]*types.Group, error) {
	var results []*types.Group
	if err := dbc.DB(r.db).
		Where("owner_id = ?", ownerID).
		Order("name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	for _, g := range results {
		g.Collections = []*types.Collection{}
	}
	return results, nil
}
