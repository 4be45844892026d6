package requests

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"
)

// PaymentRequest 创建支付
type PaymentRequest struct {
	TransferID  string  `json:"transferId" valid:"transferId"`
	Amount      float64 `json:"amount" valid:"amount"`
	Description string  `json:"description" valid:"description"`
	OpenID      string  `json:"openid" valid:"openid"`
}

// ValidatePayment 验证创建支付请求
func ValidatePayment(c *gin.Context) (*PaymentRequest, error) {
	rules := govalidator.MapData{
		"transferId":  []string{"required"},
		"amount":      []string{"required"},
		"description": []string{"max:128"},
	}
	messages := govalidator.MapData{
		"transferId": []string{
			"required:转账 ID 不能为空",
		},
		"amount": []string{
			"required:支付金额不能为空",
		},
		"description": []string{
			"max:商品描述不能超过 128 个字符",
		},
	}

	return ValidateRequest[PaymentRequest](c, rules, messages, func(req *PaymentRequest, errs url.Values) {
		checkAmount("amount", req.Amount, errs)
	})
}

// MockPaymentRequest 模拟支付成功
type MockPaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

// Decimal 金额，保留两位小数
func (r *PaymentRequest) Decimal() decimal.Decimal {
	return toAmount(r.Amount)
}
