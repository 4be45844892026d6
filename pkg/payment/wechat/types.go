package wechat

import (
	"errors"
	"time"

	"redpacket/pkg/payment/types"
)

// 微信支付 v2 协议常量
const (
	DefaultBaseURL = "https://api.mch.weixin.qq.com"

	PathUnifiedOrder  = "/pay/unifiedorder"
	PathOrderQuery    = "/pay/orderquery"
	PathTransfer      = "/mmpaymkttransfers/promotion/transfers"
	PathTransferQuery = "/mmpaymkttransfers/gettransferinfo"

	FieldSign = "sign"

	CodeSuccess = "SUCCESS"
	CodeFail    = "FAIL"

	TradeTypeJSAPI = "JSAPI"
	SignTypeMD5    = "MD5"

	// 交易状态
	TradeStateSuccess  = "SUCCESS"
	TradeStateNotPay   = "NOTPAY"
	TradeStateClosed   = "CLOSED"
	TradeStateRefund   = "REFUND"
	TradeStatePayError = "PAYERROR"

	// 对外暴露的笼统错误描述，不透出底层网络错误
	MsgCreateOrderFailed = "创建订单失败"
	MsgQueryOrderFailed  = "查询订单失败"
	MsgTransferFailed    = "企业付款失败"
	MsgSignMismatch      = "响应签名校验失败"
)

var (
	ErrInvalidOrder          = errors.New("wechat: invalid order")
	ErrEmptyNotification     = errors.New("wechat: empty notification body")
	ErrMalformedNotification = errors.New("wechat: malformed notification body")
	ErrCertificateMissing    = errors.New("wechat: merchant certificate not configured")
)

// Config 微信支付商户配置，构造 Gateway 时注入
type Config struct {
	AppID     string
	MchID     string
	APIKey    string
	NotifyURL string
	BaseURL   string
	Timeout   time.Duration

	// 企业付款使用的商户证书
	CertPath string
	KeyPath  string
}

// Order 一次支付尝试的统一下单参数，发送后不再修改
type Order struct {
	OutTradeNo string
	TotalFee   int64 // 单位：分
	Body       string
	TradeType  string
	OpenID     string
	NotifyURL  string
	ClientIP   string
}

// Validate 校验必填项
func (o *Order) Validate() error {
	if o == nil || o.OutTradeNo == "" || o.Body == "" || o.TotalFee <= 0 {
		return ErrInvalidOrder
	}
	return nil
}

// OrderResult 统一下单结果
type OrderResult struct {
	ReturnCode       string `json:"returnCode"`
	ReturnMsg        string `json:"returnMsg,omitempty"`
	ResultCode       string `json:"resultCode"`
	PrepayID         string `json:"prepayId,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
	Raw              Params `json:"-"`
}

// Success return_code 与 result_code 均为 SUCCESS
func (r *OrderResult) Success() bool {
	return r != nil && r.ReturnCode == CodeSuccess && r.ResultCode == CodeSuccess
}

// QueryResult 订单查询结果
type QueryResult struct {
	OrderResult
	TradeState     string       `json:"tradeState,omitempty"`
	TradeStateDesc string       `json:"tradeStateDesc,omitempty"`
	TransactionID  string       `json:"transactionId,omitempty"`
	TotalFee       string       `json:"totalFee,omitempty"`
	TimeEnd        string       `json:"timeEnd,omitempty"`
	Status         types.Status `json:"status,omitempty"`
	// Mapped 为 false 表示 trade_state 无法识别，调用方应保持原状态
	Mapped bool `json:"-"`
}

// ClientPaymentParams 前端 WeixinJSBridge 调起支付所需参数
type ClientPaymentParams struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// Map 转为通用 map，便于放入响应
func (p ClientPaymentParams) Map() map[string]interface{} {
	return map[string]interface{}{
		"appId":     p.AppID,
		"timeStamp": p.TimeStamp,
		"nonceStr":  p.NonceStr,
		"package":   p.Package,
		"signType":  p.SignType,
		"paySign":   p.PaySign,
	}
}

// MapTradeState 将微信 trade_state 映射为本地支付状态，无法识别时 ok 为 false
func MapTradeState(state string) (status types.Status, ok bool) {
	switch state {
	case TradeStateSuccess:
		return types.StatusPaid, true
	case TradeStateNotPay:
		return types.StatusPending, true
	case TradeStateClosed:
		return types.StatusClosed, true
	case TradeStateRefund:
		return types.StatusRefunded, true
	case TradeStatePayError:
		return types.StatusFailed, true
	}
	return "", false
}
