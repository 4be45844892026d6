package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"

	"redpacket/pkg/database/migrations"
)

func TestConnectAndMigrate(t *testing.T) {
	db, err := Connect(
		sqlite.Open("file:database_test?mode=memory&cache=shared"),
		gormlogger.Default.LogMode(gormlogger.Silent),
		PoolConfig{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute},
	)
	require.NoError(t, err)
	assert.Same(t, db, DB)
	assert.Equal(t, 3, SQLDB.Stats().MaxOpenConnections)

	require.NoError(t, AutoMigrate(migrations.RegisterTables()))
	for _, table := range []string{"transfers", "payments", "settings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestConnectReturnsError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "dir", "app.db")

	_, err := Connect(sqlite.Open(bad), gormlogger.Default.LogMode(gormlogger.Silent), PoolConfig{})
	assert.Error(t, err)
}
