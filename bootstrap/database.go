package bootstrap

import (
	"fmt"
	"time"

	"redpacket/pkg/config"
	"redpacket/pkg/database"
	"redpacket/pkg/database/migrations"
	"redpacket/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDB 初始化数据库和 ORM，存储后端为 database 时调用
func SetupDB() (*gorm.DB, error) {
	// 根据配置文件选择数据库类型
	var dialector gorm.Dialector
	switch connection := config.Get("database.connection"); connection {
	case "mysql":
		dialector = setupMySQL()
	case "postgresql":
		dialector = setupPostgreSQL()
	case "sqlite":
		dialector = setupSQLite()
	default:
		return nil, fmt.Errorf("暂不支持该数据库类型: %s", connection)
	}

	// 连接数据库，并设置 GORM 的日志模式与连接池
	db, err := database.Connect(dialector, logger.NewGormLogger(), database.PoolConfig{
		MaxOpenConns:    config.GetInt("database.max_open_connections"),
		MaxIdleConns:    config.GetInt("database.max_idle_connections"),
		ConnMaxLifetime: time.Duration(config.GetInt("database.max_life_seconds")) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	// 自动迁移数据库结构
	if err := database.AutoMigrate(migrations.RegisterTables()); err != nil {
		return nil, fmt.Errorf("数据表结构迁移失败: %w", err)
	}
	logger.InfoString("数据库", "自动迁移", "数据表结构迁移成功")

	return db, nil
}

// setupMySQL 配置 MySQL 连接
func setupMySQL() gorm.Dialector {
	dsn := fmt.Sprintf("%v:%v@tcp(%v:%v)/%v?charset=%v&parseTime=True&multiStatements=true&loc=Local",
		config.Get("database.mysql.username"),
		config.Get("database.mysql.password"),
		config.Get("database.mysql.host"),
		config.Get("database.mysql.port"),
		config.Get("database.mysql.database"),
		config.Get("database.mysql.charset"),
	)
	return mysql.New(mysql.Config{
		DSN: dsn,
	})
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		config.Get("database.postgresql.host"),
		config.Get("database.postgresql.port"),
		config.Get("database.postgresql.username"),
		config.Get("database.postgresql.password"),
		config.Get("database.postgresql.database"),
		config.Get("app.timezone"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接
func setupSQLite() gorm.Dialector {
	database := config.Get("database.sqlite.database")
	return sqlite.Open(database)
}
