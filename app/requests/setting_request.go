package requests

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"
)

// SettingRequest 更新默认设置
type SettingRequest struct {
	DisplayName  string  `json:"displayName" valid:"displayName"`
	ActualAmount float64 `json:"actualAmount" valid:"actualAmount"`
	SenderName   string  `json:"senderName" valid:"senderName"`
	Message      string  `json:"message" valid:"message"`
}

// ValidateSetting 验证设置请求
func ValidateSetting(c *gin.Context) (*SettingRequest, error) {
	rules := govalidator.MapData{
		"displayName":  []string{"required", "max:100"},
		"actualAmount": []string{"required"},
		"senderName":   []string{"required", "max:100"},
	}
	messages := govalidator.MapData{
		"displayName": []string{
			"required:展示金额不能为空",
		},
		"actualAmount": []string{
			"required:实际金额不能为空",
		},
		"senderName": []string{
			"required:发送人不能为空",
		},
	}

	return ValidateRequest[SettingRequest](c, rules, messages, func(req *SettingRequest, errs url.Values) {
		checkAmount("actualAmount", req.ActualAmount, errs)
	})
}

// Decimal 金额，保留两位小数
func (r *SettingRequest) Decimal() decimal.Decimal {
	return toAmount(r.ActualAmount)
}
