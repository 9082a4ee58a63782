package config

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the sync database of one service. Without a DSN the sqlite
// driver uses <dataDir>/<service>-sync.db.
func InitDB(cfg SyncDBConfig, dataDir, service string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "mysql":
		db, err = gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = filepath.Join(dataDir, service+"-sync.db")
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unknown sync db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open sync db: %w", err)
	}

	if cfg.Driver != "mysql" {
		// SQLite hanya satu writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	return db, nil
}
