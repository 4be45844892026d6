// Package payment 支付记录模型
package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"redpacket/app/models"
	"redpacket/pkg/payment/types"
)

// Payment 一次支付尝试
type Payment struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TransferID    string          `gorm:"type:varchar(36);index" json:"transferId"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description   string          `gorm:"type:varchar(128)" json:"description"`
	Status        types.Status    `gorm:"type:varchar(20);index" json:"status"`
	OrderID       string          `gorm:"type:varchar(64);uniqueIndex" json:"orderId"`
	PrepayID      string          `gorm:"type:varchar(64)" json:"prepayId,omitempty"`
	TransactionID string          `gorm:"type:varchar(64)" json:"transactionId,omitempty"`
	Error         string          `gorm:"type:varchar(255)" json:"error,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
