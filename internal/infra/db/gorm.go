package db

import (
	"database/sql"
	"fmt"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Database) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	configurePool(sqlDB, cfg)
	return gormDB, nil
}

// プール設定（0以下はdatabase/sqlの既定のまま）
func configurePool(sqlDB *sql.DB, cfg config.Database) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// 参照される側から順に作る
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.DiningTable{},
		&model.Menu{},
		&model.NoodleType{},
		&model.Soup{},
		&model.Meat{},
		&model.Size{},
		&model.Promotion{},
		&model.PromotionMenuItem{},
		&model.Order{},
		&model.OrderDetail{},
		&model.OrderStatusLog{},
	)
}
