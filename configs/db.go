package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restora/entity"
)

// OpenDB connects the optional sqlite-backed store and migrates the
// schema. Only called when STORE_DRIVER=sqlite.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&entity.MenuItem{},
		&entity.Review{},
		&entity.Reservation{},
		&entity.Sale{},
		&entity.User{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
