package collection

import (
	"fmt"

	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CollectionRepo interface {
	Create(dbc dbctx.Context, collection *types.Collection) error
	Read(dbc dbctx.Context, id string) (*types.Collection, error)
	// UpdateMetadata writes name and group_id only.
	UpdateMetadata(dbc dbctx.Context, collection *types.Collection) error
	Delete(dbc dbctx.Context, id string) error
	Exists(dbc dbctx.Context, id string) (bool, error)
	GetAll(dbc dbctx.Context) ([]*types.Collection, error)
	GetByGroupIDs(dbc dbctx.Context, groupIDs []string) ([]*types.Collection, error)
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	repoLog := baseLog.With("repo", "CollectionRepo")
	return &collectionRepo{db: db, log: repoLog}
}

func (r *collectionRepo) Create(dbc dbctx.Context, collection *types.Collection) error {
	return dbc.DB(r.db).Create(collection).Error
}

// Read returns nil without error when no collection has the id. Coins are
// not loaded.
func (r *collectionRepo) Read(dbc dbctx.Context, id string) (*types.Collection, error) {
	var rows []*types.Collection
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows[0].Coins = []*types.Coin{}
	return rows[0], nil
}

func (r *collectionRepo) UpdateMetadata(dbc dbctx.Context, collection *types.Collection) error {
	res := dbc.DB(r.db).
		Model(&types.Collection{}).
		Where("id = ?", collection.ID).
		Updates(map[string]any{
			"name":     collection.Name,
			"group_id": collection.GroupID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("update collection %s: %w", collection.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *collectionRepo) Delete(dbc dbctx.Context, id string) error {
	res := dbc.DB(r.db).
		Where("id = ?", id).
		Delete(&types.Collection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("delete collection %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *collectionRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Collection{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *collectionRepo) GetAll(dbc dbctx.Context) ([]*types.Collection, error) {
	var results []*types.Collection
	if err := dbc.DB(r.db).
		Order("group_id ASC, name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	for _, c := range results {
		c.Coins = []*types.Coin{}
	}
	return results, nil
}

func (r *collectionRepo) GetByGroupIDs(dbc dbctx.Context, groupIDs []string) ([]*types.Collection, error) {
	var results []*types.Collection
	if len(groupIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("group_id IN ?", groupIDs).
		Order("group_id ASC, name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	for _, c := range results {
		c.Coins = []*types.Coin{}
	}
	return results, nil
}
