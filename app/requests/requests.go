// Package requests 处理请求数据和表单验证
package requests

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"
)

// ValidationError 自定义验证错误
type ValidationError struct {
	Errors url.Values
}

// Error 实现 error 接口
func (v ValidationError) Error() string {
	return fmt.Sprintf("验证错误: %v", v.Errors)
}

// ValidateStruct 通用的结构体验证函数，data 必须是结构体指针
func ValidateStruct(data interface{}, rules govalidator.MapData, messages govalidator.MapData) url.Values {
	opts := govalidator.Options{
		Data:          data,
		Rules:         rules,
		TagIdentifier: "valid", // 模型中的 Struct 标签标识符
		Messages:      messages,
	}
	return govalidator.New(opts).ValidateStruct()
}

// ValidateRequest 解析 JSON 请求体并按规则验证，额外的业务校验通过 extra 追加
func ValidateRequest[T any](c *gin.Context, rules, messages govalidator.MapData, extra ...func(*T, url.Values)) (*T, error) {
	req := new(T)

	// 1. 解析请求体
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, fmt.Errorf("解析请求失败: %w", err)
	}

	// 2. 验证结构体
	errs := ValidateStruct(req, rules, messages)
	if errs == nil {
		errs = url.Values{}
	}
	for _, fn := range extra {
		fn(req, errs)
	}
	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}

	return req, nil
}

// checkAmount 金额保留两位小数后必须大于 0
func checkAmount(field string, v float64, errs url.Values) {
	if !toAmount(v).IsPositive() && len(errs[field]) == 0 {
		errs.Add(field, "金额必须大于 0")
	}
}

func toAmount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
