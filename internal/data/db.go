package data

import (
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"

	"notehub/pkg/database"
)

// NewDB opens the Postgres connection and migrates the schema.
func NewDB(c *database.Config, logger log.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(c, logger)
	if err != nil {
		return nil, err
	}

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserDO{},
		&NoteDO{},
		&CollaborationDO{},
		&RefreshTokenDO{},
	)
}
