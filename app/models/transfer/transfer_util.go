package transfer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status 领取状态
type Status string

const (
	StatusPending  Status = "pending"  // 待领取
	StatusReceived Status = "received" // 已领取
	StatusExpired  Status = "expired"  // 已过期
)

// AccountStatus 账户状态
type AccountStatus string

const (
	AccountAvailable AccountStatus = "available"
	AccountFrozen    AccountStatus = "frozen"
)

const (
	DefaultAvatar = "/default-avatar.png"
	DefaultTheme  = "classic"
)

// Patch 部分更新，nil 字段保持不变
type Patch struct {
	DisplayName    *string
	ActualAmount   *decimal.Decimal
	Message        *string
	Status         *Status
	AccountStatus  *AccountStatus
	Theme          *string
	ReceiverOpenID *string
	PaymentID      *string
}

// New 按默认值创建转账记录，ID 为 UUID
func New(displayName string, amount decimal.Decimal, senderName string) *Transfer {
	return &Transfer{
		ID:            uuid.NewString(),
		DisplayName:   displayName,
		ActualAmount:  amount,
		SenderName:    senderName,
		SenderAvatar:  DefaultAvatar,
		Status:        StatusPending,
		AccountStatus: AccountAvailable,
		Theme:         DefaultTheme,
	}
}

// Validate 验证记录
func (t *Transfer) Validate() error {
	if t.DisplayName == "" {
		return errors.New("displayName is required")
	}
	if t.SenderName == "" {
		return errors.New("senderName is required")
	}
	if !t.ActualAmount.IsPositive() {
		return errors.New("actualAmount must be greater than 0")
	}
	return nil
}

// Apply 应用部分更新；状态改为已领取时记录领取时间
func (t *Transfer) Apply(p Patch, now time.Time) {
	if p.DisplayName != nil {
		t.DisplayName = *p.DisplayName
	}
	if p.ActualAmount != nil {
		t.ActualAmount = *p.ActualAmount
	}
	if p.Message != nil {
		t.Message = *p.Message
	}
	if p.AccountStatus != nil {
		t.AccountStatus = *p.AccountStatus
	}
	if p.Theme != nil {
		t.Theme = *p.Theme
	}
	if p.ReceiverOpenID != nil {
		t.ReceiverOpenID = *p.ReceiverOpenID
	}
	if p.PaymentID != nil {
		t.PaymentID = *p.PaymentID
	}
	if p.Status != nil {
		t.Status = *p.Status
		if t.Status == StatusReceived && t.ReceivedAt == nil {
			received := now
			t.ReceivedAt = &received
		}
	}
}

// IsReceived 是否已领取
func (t *Transfer) IsReceived() bool {
	return t.Status == StatusReceived
}
