package migrations

import (
	"github.com/ipahub/ipahub/db"
	"gorm.io/gorm"
)

func Migrate(gormDB *gorm.DB) error {
	// AutoMigrate all core models
	return gormDB.AutoMigrate(
		&db.UserConfig{},
		&db.Account{},
		&db.Download{},
	)
}
