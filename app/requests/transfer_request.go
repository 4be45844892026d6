package requests

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"
)

// TransferRequest 创建转账
type TransferRequest struct {
	DisplayName   string  `json:"displayName" valid:"displayName"`
	ActualAmount  float64 `json:"actualAmount" valid:"actualAmount"`
	SenderName    string  `json:"senderName" valid:"senderName"`
	SenderAvatar  string  `json:"senderAvatar" valid:"senderAvatar"`
	Message       string  `json:"message" valid:"message"`
	Theme         string  `json:"theme" valid:"theme"`
	AccountStatus string  `json:"accountStatus" valid:"accountStatus"`
	OpenID        string  `json:"receiverOpenId" valid:"receiverOpenId"`
}

// ValidateTransfer 验证创建转账请求
func ValidateTransfer(c *gin.Context) (*TransferRequest, error) {
	rules := govalidator.MapData{
		"displayName":   []string{"required", "max:100"},
		"actualAmount":  []string{"required"},
		"senderName":    []string{"required", "max:100"},
		"senderAvatar":  []string{"max:500"},
		"theme":         []string{"max:50"},
		"accountStatus": []string{"in:available,frozen"},
	}
	messages := govalidator.MapData{
		"displayName": []string{
			"required:展示金额不能为空",
			"max:展示金额长度不能超过 100 个字符",
		},
		"actualAmount": []string{
			"required:实际金额不能为空",
		},
		"senderName": []string{
			"required:发送人不能为空",
			"max:发送人长度不能超过 100 个字符",
		},
		"accountStatus": []string{
			"in:账户状态必须是 available 或 frozen",
		},
	}

	return ValidateRequest[TransferRequest](c, rules, messages, func(req *TransferRequest, errs url.Values) {
		checkAmount("actualAmount", req.ActualAmount, errs)
	})
}

// TransferUpdateRequest 部分更新转账，字段为空表示不修改
type TransferUpdateRequest struct {
	DisplayName    *string  `json:"displayName" binding:"omitempty,max=100"`
	ActualAmount   *float64 `json:"actualAmount" binding:"omitempty,gt=0"`
	Message        *string  `json:"message"`
	Status         *string  `json:"status" binding:"omitempty,oneof=pending received expired"`
	AccountStatus  *string  `json:"accountStatus" binding:"omitempty,oneof=available frozen"`
	Theme          *string  `json:"theme" binding:"omitempty,max=50"`
	ReceiverOpenID *string  `json:"receiverOpenId" binding:"omitempty,max=100"`
	PaymentID      *string  `json:"paymentId" binding:"omitempty,max=100"`
}

// Decimal 金额，保留两位小数
func (r *TransferRequest) Decimal() decimal.Decimal {
	return toAmount(r.ActualAmount)
}
