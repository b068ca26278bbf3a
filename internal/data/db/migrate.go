package db

import (
	"fmt"

	types "github.com/yungbote/coincollector-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every persisted table in creation order.
func Models() []any {
	return []any{
		&types.User{},
		&types.Group{},
		&types.Collection{},
		&types.Coin{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
