package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"redpacket/pkg/payment/types"
	"redpacket/pkg/payment/utils"
)

// New 创建待支付记录，同时分配商户订单号
func New(transferID string, amount decimal.Decimal, description string) *Payment {
	return &Payment{
		ID:          uuid.NewString(),
		TransferID:  transferID,
		Amount:      amount,
		Description: description,
		Status:      types.StatusPending,
		OrderID:     utils.GenerateOrderNo(),
	}
}

// IsTerminal 是否已进入终态
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// IsSuccess 是否支付成功
func (p *Payment) IsSuccess() bool {
	return p.Status == types.StatusPaid
}

// MarkCreated 下单成功
func (p *Payment) MarkCreated(prepayID string) {
	p.Status = types.StatusCreated
	p.PrepayID = prepayID
	p.Error = ""
}

// MarkFailed 下单失败，保存微信返回的错误描述
func (p *Payment) MarkFailed(reason string) {
	p.Status = types.StatusFailed
	p.Error = reason
}

// Transition 迁移到新状态，终态记录不再变更。返回是否发生了变更。
func (p *Payment) Transition(status types.Status, transactionID string, now time.Time) bool {
	if p.IsTerminal() || status == "" || status == p.Status {
		return false
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	if status == types.StatusPaid {
		paid := now
		p.PaidAt = &paid
	}
	return true
}
