package types

import (
	"github.com/shopspring/decimal"
)

// Status 支付状态
//
// 状态流转：pending → created → {paid | failed | closed | refunded}
type Status string

const (
	StatusPending  Status = "pending"  // 待支付
	StatusCreated  Status = "created"  // 已统一下单，等待用户付款
	StatusPaid     Status = "paid"     // 已支付
	StatusFailed   Status = "failed"   // 下单失败或支付失败
	StatusClosed   Status = "closed"   // 已关闭
	StatusRefunded Status = "refunded" // 已退款
)

// IsTerminal 是否为终态，终态不再接受任何流转
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusClosed, StatusRefunded:
		return true
	}
	return false
}

// IsPollable 是否需要向微信查询最新状态
func (s Status) IsPollable() bool {
	return s == StatusPending || s == StatusCreated
}

// Request 创建支付请求参数
type Request struct {
	TransferID  string          `json:"transferId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OpenID      string          `json:"openid"`
	ClientIP    string          `json:"-"`
}

// Result 创建支付结果
type Result struct {
	PaymentID     string                 `json:"paymentId"`
	OrderID       string                 `json:"orderId"`
	PaymentParams map[string]interface{} `json:"paymentParams"`
}
