package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"redpacket/app/models/setting"
)

type settingRepository struct {
	db *gorm.DB
}

func (r *settingRepository) Get(ctx context.Context) (*setting.Setting, error) {
	var s setting.Setting
	err := r.db.WithContext(ctx).First(&s, setting.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return setting.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Save(ctx context.Context, s *setting.Setting) error {
	now := time.Now()
	s.ID = setting.SingletonID
	s.UpdateTime = &now
	return r.db.WithContext(ctx).Save(s).Error
}
