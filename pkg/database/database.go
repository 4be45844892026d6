// Package database gorm 连接、连接池与迁移
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotConnected 尚未调用 Connect
var ErrNotConnected = errors.New("database: not connected")

// DB 对象，仅在存储后端为 database 时初始化
var DB *gorm.DB
var SQLDB *sql.DB

// PoolConfig 连接池配置，零值表示沿用 database/sql 默认值
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect 连接数据库并设置连接池，成功后更新全局 DB
func Connect(dialector gorm.Dialector, gormLogger gormlogger.Interface, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层的 sqlDB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 SQL 连接失败: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	DB, SQLDB = db, sqlDB
	return db, nil
}

// AutoMigrate 自动迁移所有数据表
func AutoMigrate(tables []interface{}) error {
	if DB == nil {
		return ErrNotConnected
	}
	return DB.AutoMigrate(tables...)
}
