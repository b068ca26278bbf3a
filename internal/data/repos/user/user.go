package user

import (
	"fmt"

	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) error
	Read(dbc dbctx.Context, id string) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	Update(dbc dbctx.Context, user *types.User) error
	Delete(dbc dbctx.Context, id string) error
	Exists(dbc dbctx.Context, id string) (bool, error)
	UsernameExists(dbc dbctx.Context, username string) (bool, error)
	GetAll(dbc dbctx.Context) ([]*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) error {
	return dbc.DB(ur.db).Create(user).Error
}

func (ur *userRepo) Read(dbc dbctx.Context, id string) (*types.User, error) {
	return ur.first(dbc, "id = ?", id)
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	return ur.first(dbc, "username = ?", username)
}

func (ur *userRepo) first(dbc dbctx.Context, query string, arg any) (*types.User, error) {
	var rows []*types.User
	if err := dbc.DB(ur.db).
		Where(query, arg).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ur *userRepo) Update(dbc dbctx.Context, user *types.User) error {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"username":      user.Username,
			"password_hash": user.PasswordHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("update user %s: %w", user.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (ur *userRepo) Delete(dbc dbctx.Context, id string) error {
	res := dbc.DB(ur.db).
		Where("id = ?", id).
		Delete(&types.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("delete user %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (ur *userRepo) Exists(dbc dbctx.Context, id string) (bool, error) {
	return ur.count(dbc, "id = ?", id)
}

func (ur *userRepo) UsernameExists(dbc dbctx.Context, username string) (bool, error) {
	return ur.count(dbc, "username = ?", username)
}

func (ur *userRepo) count(dbc dbctx.Context, query string, arg any) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) GetAll(dbc dbctx.Context) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).
		Order("username ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
