// Package repositories 数据访问层，JSON 文件与数据库两种实现共用同一组接口
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"redpacket/app/models/payment"
	"redpacket/app/models/setting"
	"redpacket/app/models/transfer"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// 存储驱动
const (
	DriverFile     = "file"
	DriverDatabase = "database"
)

// TransferRepository 转账记录仓库
type TransferRepository interface {
	Create(ctx context.Context, t *transfer.Transfer) error
	Get(ctx context.Context, id string) (*transfer.Transfer, error)
	Update(ctx context.Context, t *transfer.Transfer) error
	Delete(ctx context.Context, id string) error
	// List 按创建时间倒序分页
	List(ctx context.Context, page, size int) ([]transfer.Transfer, int64, error)
	All(ctx context.Context) ([]transfer.Transfer, error)
}

// PaymentRepository 支付记录仓库
type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	Get(ctx context.Context, id string) (*payment.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*payment.Payment, error)
	Update(ctx context.Context, p *payment.Payment) error
}

// SettingRepository 设置仓库，未保存过时返回默认设置
type SettingRepository interface {
	Get(ctx context.Context) (*setting.Setting, error)
	Save(ctx context.Context, s *setting.Setting) error
}

// Store 聚合所有仓库
type Store struct {
	Driver    string
	Transfers TransferRepository
	Payments  PaymentRepository
	Settings  SettingRepository
}

// NewDatabaseStore 基于 gorm 的存储
func NewDatabaseStore(db *gorm.DB) *Store {
	return &Store{
		Driver:    DriverDatabase,
		Transfers: &transferRepository{db: db},
		Payments:  &paymentRepository{db: db},
		Settings:  &settingRepository{db: db},
	}
}

// NewFileStore 基于 JSON 文件的存储，文件位于 dir 下
func NewFileStore(dir string) *Store {
	return &Store{
		Driver:    DriverFile,
		Transfers: newTransferFileRepository(dir),
		Payments:  newPaymentFileRepository(dir),
		Settings:  newSettingFileRepository(dir),
	}
}

// normalizePage 页码从 1 开始，默认每页 10 条
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
