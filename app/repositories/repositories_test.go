package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"redpacket/app/models/payment"
	"redpacket/app/models/transfer"
	"redpacket/pkg/database/migrations"
	"redpacket/pkg/payment/types"
)

func newDatabaseStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations.RegisterTables()...))
	return NewDatabaseStore(db)
}

func stores() map[string]func(t *testing.T) *Store {
	return map[string]func(t *testing.T) *Store{
		DriverFile: func(t *testing.T) *Store {
			return NewFileStore(t.TempDir())
		},
		DriverDatabase: newDatabaseStore,
	}
}

func TestTransferRepository(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			repo := store.Transfers

			base := time.Now().Add(-time.Hour).Truncate(time.Second)
			ids := make([]string, 0, 3)
			for i := 0; i < 3; i++ {
				tr := transfer.New(fmt.Sprintf("%d.00元", i+1), decimal.NewFromInt(int64(i+1)), "张三")
				tr.CreatedAt = base.Add(time.Duration(i) * time.Minute)
				require.NoError(t, repo.Create(ctx, tr))
				ids = append(ids, tr.ID)
			}

			got, err := repo.Get(ctx, ids[0])
			require.NoError(t, err)
			assert.Equal(t, "1.00元", got.DisplayName)
			assert.True(t, got.ActualAmount.Equal(decimal.NewFromInt(1)))

			_, err = repo.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			// 倒序分页
			list, total, err := repo.List(ctx, 1, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			require.Len(t, list, 2)
			assert.Equal(t, ids[2], list[0].ID)
			assert.Equal(t, ids[1], list[1].ID)

			list, _, err = repo.List(ctx, 2, 2)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, ids[0], list[0].ID)

			list, _, err = repo.List(ctx, 5, 2)
			require.NoError(t, err)
			assert.Empty(t, list)

			got.Message = "恭喜发财"
			require.NoError(t, repo.Update(ctx, got))
			got, err = repo.Get(ctx, ids[0])
			require.NoError(t, err)
			assert.Equal(t, "恭喜发财", got.Message)

			require.NoError(t, repo.Delete(ctx, ids[1]))
			assert.ErrorIs(t, repo.Delete(ctx, ids[1]), ErrNotFound)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestPaymentRepository(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newStore(t).Payments

			p := payment.New("t1", decimal.RequireFromString("0.1"), "红包")
			require.NoError(t, repo.Create(ctx, p))

			got, err := repo.GetByOrderID(ctx, p.OrderID)
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
			assert.Equal(t, types.StatusPending, got.Status)

			got.MarkCreated("prepay1")
			require.NoError(t, repo.Update(ctx, got))

			got, err = repo.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, types.StatusCreated, got.Status)
			assert.Equal(t, "prepay1", got.PrepayID)

			_, err = repo.GetByOrderID(ctx, "PAY0")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSettingRepository(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newStore(t).Settings

			s, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "张三", s.SenderName)
			assert.Nil(t, s.UpdateTime)

			s.SenderName = "李四"
			s.ActualAmount = decimal.RequireFromString("1.5")
			require.NoError(t, repo.Save(ctx, s))

			s, err = repo.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "李四", s.SenderName)
			assert.True(t, s.ActualAmount.Equal(decimal.RequireFromString("1.5")))
			assert.NotNil(t, s.UpdateTime)
		})
	}
}
