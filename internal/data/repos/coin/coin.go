package coin

import (
	"fmt"

	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CoinRepo interface {
	Create(dbc dbctx.Context, coin *types.Coin) error
	Read(dbc dbctx.Context, id string) (*types.Coin, error)
	Update(dbc dbctx.Context, coin *types.Coin) error
	Delete(dbc dbctx.Context, id string) error
	Exists(dbc dbctx.Context, id string) (bool, error)
	GetAll(dbc dbctx.Context) ([]*types.Coin, error)
	GetByCollectionIDs(dbc dbctx.Context, collectionIDs []string) ([]*types.Coin, error)
	DeleteByCollectionID(dbc dbctx.Context, collectionID string) (int64, error)
}

type coinRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoinRepo(db *gorm.DB, baseLog *logger.Logger) CoinRepo {
	repoLog := baseLog.With("repo", "CoinRepo")
	return &coinRepo{db: db, log: repoLog}
}

func (r *coinRepo) Create(dbc dbctx.Context, coin *types.Coin) error {
	return dbc.DB(r.db).Create(coin).Error
}

// Read returns nil without error when no coin has the id.
func (r *coinRepo) Read(dbc dbctx.Context, id string) (*types.Coin, error) {
	var rows []*types.Coin
	if err := dbc.DB(r.db).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *coinRepo) Update(dbc dbctx.Context, coin *types.Coin) error {
	res := dbc.DB(r.db).
		Model(&types.Coin{}).
		Where("id = ?", coin.ID).
		Updates(map[string]any{
			"year":          coin.Year,
			"value":         coin.Value,
			"mint_country":  coin.Country,
			"mint":          coin.Mint,
			"description":   coin.Description,
			"collection_id": coin.CollectionID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("update coin %s: %w", coin.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *coinRepo) Delete(dbc dbctx.Context, id string) error {
	res := dbc.DB(r.db).
		Where("id = ?", id).
		Delete(&types.Coin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("delete coin %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *coinRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Coin{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *coinRepo) GetAll(dbc dbctx.Context) ([]*types.Coin, error) {
	var results []*types.Coin
	if err := dbc.DB(r.db).
		Order("collection_id ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coinRepo) GetByCollectionIDs(dbc dbctx.Context, collectionIDs []string) ([]*types.Coin, error) {
	var results []*types.Coin
	if len(collectionIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("collection_id IN ?", collectionIDs).
		Order("collection_id ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coinRepo) DeleteByCollectionID(dbc dbctx.Context, collectionID string) (int64, error) {
	res := dbc.DB(r.db).
		Where("collection_id = ?", collectionID).
		Delete(&types.Coin{})
	return res.RowsAffected, res.Error
}
