// Package transfer 转账（红包）记录模型
package transfer

import (
	"time"

	"github.com/shopspring/decimal"

	"redpacket/app/models"
)

// Transfer 转账记录
type Transfer struct {
	ID             string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	DisplayName    string          `gorm:"type:varchar(100);not null" json:"displayName"`
	ActualAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"actualAmount"`
	SenderName     string          `gorm:"type:varchar(100);not null" json:"senderName"`
	SenderAvatar   string          `gorm:"type:varchar(500)" json:"senderAvatar"`
	Message        string          `gorm:"type:text" json:"message"`
	Status         Status          `gorm:"type:varchar(20);default:pending;index" json:"status"`
	AccountStatus  AccountStatus   `gorm:"type:varchar(20);default:available" json:"accountStatus"`
	Theme          string          `gorm:"type:varchar(50);default:classic" json:"theme"`
	ReceiverOpenID string          `gorm:"type:varchar(100)" json:"receiverOpenId"`
	PaymentID      string          `gorm:"type:varchar(100)" json:"paymentId"`
	PayoutNo       string          `gorm:"type:varchar(64);index" json:"payoutNo,omitempty"`
	ReceivedAt     *time.Time      `json:"receivedAt,omitempty"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Transfer) TableName() string {
	return "transfers"
}
