package db

import (
	"fmt"
	"time"

	"pos/internal/config"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         NewGormLogger(log, time.Second),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case config.DriverSQLite:
		//外部キーはsqliteだと明示的に有効化が必要
		gdb, err := gorm.Open(sqlite.Open(cfg.SQLitePath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gcfg)
		if err != nil {
			return nil, err
		}
		//書き込みは1本ずつ
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil

	case config.DriverPostgres:
		gdb, err := gorm.Open(postgres.New(postgres.Config{
			DSN: cfg.PostgresDSN(),
		}), gcfg)
		if err != nil {
			return nil, err
		}

		//コネクションプール
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return gdb, nil
	}

	return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
}
