// Package models 模型通用属性和方法
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额以数字而非字符串输出，与前端约定一致
	decimal.MarshalJSONWithoutQuotes = true
}

// CommonTimestampsField 时间戳
type CommonTimestampsField struct {
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Touch 写入前补全时间戳，供不经过 gorm 的存储后端使用
func (f *CommonTimestampsField) Touch(now time.Time) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
}
