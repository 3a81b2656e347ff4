package database

import (
	"fmt"
	"time"

	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the release ledger. It returns a nil *gorm.DB when the
// ledger is disabled with DATABASE_TYPE=none.
func Open(cfg config.Settings) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DatabaseType {
	case "none", "disabled":
		return nil, nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DatabaseUser,
			cfg.DatabasePassword,
			cfg.DatabaseHost,
			cfg.DatabasePort,
			cfg.DatabaseName,
		)
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(cfg.SQLiteDBPath), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatabaseType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		if pool, ok := db.ConnPool.(interface{ Close() error }); ok {
			_ = pool.Close()
		}
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&models.Release{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
