package repositories

import (
	"context"

	"gorm.io/gorm"

	"redpacket/app/models/transfer"
)

// transferRepository 数据库实现
type transferRepository struct {
	db *gorm.DB
}

func (r *transferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transferRepository) Get(ctx context.Context, id string) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *transferRepository) Update(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *transferRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&transfer.Transfer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transferRepository) List(ctx context.Context, page, size int) ([]transfer.Transfer, int64, error) {
	page, size = normalizePage(page, size)

	var (
		transfers []transfer.Transfer
		total     int64
	)
	query := r.db.WithContext(ctx).Model(&transfer.Transfer{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&transfers).Error
	return transfers, total, err
}

func (r *transferRepository) All(ctx context.Context) ([]transfer.Transfer, error) {
	var transfers []transfer.Transfer
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}
