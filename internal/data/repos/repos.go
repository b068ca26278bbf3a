package repos

import (
	"github.com/yungbote/coincollector-backend/internal/data/repos/coin"
	"github.com/yungbote/coincollector-backend/internal/data/repos/collection"
	"github.com/yungbote/coincollector-backend/internal/data/repos/group"
	"github.com/yungbote/coincollector-backend/internal/data/repos/user"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type GroupRepo = group.GroupRepo
type CollectionRepo = collection.CollectionRepo
type CoinRepo = coin.CoinRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return group.NewGroupRepo(db, baseLog)
}
func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	return collection.NewCollectionRepo(db, baseLog)
}
func NewCoinRepo(db *gorm.DB, baseLog *logger.Logger) CoinRepo { return coin.NewCoinRepo(db, baseLog) }
