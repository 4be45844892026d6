// Package setting 红包默认设置
package setting

import (
	"time"

	"github.com/shopspring/decimal"
)

// SingletonID 设置表只有一行
const SingletonID = 1

// Setting 前端创建红包时的默认值
type Setting struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	DisplayName  string          `gorm:"type:varchar(100)" json:"displayName"`
	ActualAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"actualAmount"`
	SenderName   string          `gorm:"type:varchar(100)" json:"senderName"`
	Message      string          `gorm:"type:text" json:"message"`
	UpdateTime   *time.Time      `json:"updateTime,omitempty"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}

// Default 默认设置
func Default() *Setting {
	return &Setting{
		ID:           SingletonID,
		DisplayName:  "100.00元",
		ActualAmount: decimal.RequireFromString("0.1"),
		SenderName:   "张三",
		Message:      "恭喜发财，大吉大利",
	}
}
