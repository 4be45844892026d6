package wechat

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"redpacket/pkg/logger"
	"redpacket/pkg/payment/utils"
)

// Gateway 微信支付 v2（XML）接口网关
type Gateway struct {
	cfg          Config
	client       *resty.Client
	payoutClient *resty.Client

	nonce func() string
	now   func() time.Time
}

// NewGateway 创建支付网关。证书文件存在时同时初始化企业付款所需的双向 TLS 客户端。
func NewGateway(cfg Config) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	g := &Gateway{
		cfg:    cfg,
		client: newClient(cfg),
		nonce:  utils.GenerateNonceStr,
		now:    time.Now,
	}

	if cfg.CertPath != "" && cfg.KeyPath != "" {
		cert, err := LoadClientCertificate(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			logger.WarnString("WechatPay", "证书", err.Error())
		} else {
			g.payoutClient = newClient(cfg).SetCertificates(cert)
		}
	}
	return g
}

func newClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/xml; charset=utf-8").
		SetHeader("Accept", "application/xml")
}

// Config 返回网关配置副本
func (g *Gateway) Config() Config {
	return g.cfg
}

// CreateOrder 统一下单。
// 网络错误不会向上返回，统一转成 FAIL 结果；error 仅用于非法的 Order。
func (g *Gateway) CreateOrder(ctx context.Context, order *Order) (*OrderResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	params := Params{
		"appid":            g.cfg.AppID,
		"mch_id":           g.cfg.MchID,
		"nonce_str":        g.nonce(),
		"body":             order.Body,
		"out_trade_no":     order.OutTradeNo,
		"spbill_create_ip": withDefault(order.ClientIP, "127.0.0.1"),
		"notify_url":       withDefault(order.NotifyURL, g.cfg.NotifyURL),
		"trade_type":       withDefault(order.TradeType, TradeTypeJSAPI),
		"openid":           order.OpenID,
	}
	params.SetInt("total_fee", order.TotalFee)
	params[FieldSign] = Sign(params, g.cfg.APIKey)

	resp, err := g.post(ctx, g.client, PathUnifiedOrder, params)
	if err != nil {
		logger.ErrorString("WechatPay", "统一下单", fmt.Sprintf("out_trade_no=%s, err=%v", order.OutTradeNo, err))
		return failedOrder(MsgCreateOrderFailed), nil
	}

	result := newOrderResult(resp)
	if result.Success() && resp.Get(FieldSign) != "" && !Verify(resp, g.cfg.APIKey) {
		logger.WarnString("WechatPay", "统一下单", "响应签名不匹配 out_trade_no="+order.OutTradeNo)
		return failedOrder(MsgSignMismatch), nil
	}
	return result, nil
}

// QueryOrder 查询订单并映射 trade_state
func (g *Gateway) QueryOrder(ctx context.Context, outTradeNo string) *QueryResult {
	params := Params{
		"appid":        g.cfg.AppID,
		"mch_id":       g.cfg.MchID,
		"out_trade_no": outTradeNo,
		"nonce_str":    g.nonce(),
	}
	params[FieldSign] = Sign(params, g.cfg.APIKey)

	resp, err := g.post(ctx, g.client, PathOrderQuery, params)
	if err != nil {
		logger.ErrorString("WechatPay", "查询订单", fmt.Sprintf("out_trade_no=%s, err=%v", outTradeNo, err))
		return &QueryResult{OrderResult: *failedOrder(MsgQueryOrderFailed)}
	}
	if resp.Get(FieldSign) != "" && !Verify(resp, g.cfg.APIKey) {
		logger.WarnString("WechatPay", "查询订单", "响应签名不匹配 out_trade_no="+outTradeNo)
		return &QueryResult{OrderResult: *failedOrder(MsgSignMismatch)}
	}

	result := &QueryResult{
		OrderResult:    *newOrderResult(resp),
		TradeState:     resp.Get("trade_state"),
		TradeStateDesc: resp.Get("trade_state_desc"),
		TransactionID:  resp.Get("transaction_id"),
		TotalFee:       resp.Get("total_fee"),
		TimeEnd:        resp.Get("time_end"),
	}
	if result.Success() {
		result.Status, result.Mapped = MapTradeState(result.TradeState)
	}
	return result
}

// ParseNotification 解析支付结果通知报文
func (g *Gateway) ParseNotification(body []byte) (Params, error) {
	if len(body) == 0 {
		return nil, ErrEmptyNotification
	}
	params := FromXML(string(body))
	if len(params) == 0 {
		return nil, ErrMalformedNotification
	}
	return params, nil
}

// VerifyNotification 使用商户密钥重新计算签名并与通知中的 sign 比对
func (g *Gateway) VerifyNotification(payload Params) bool {
	return Verify(payload, g.cfg.APIKey)
}

// BuildClientPaymentParams 生成 JSAPI 调起支付参数，package 为 prepay_id=<id>
func (g *Gateway) BuildClientPaymentParams(prepayID string) ClientPaymentParams {
	p := ClientPaymentParams{
		AppID:     g.cfg.AppID,
		TimeStamp: strconv.FormatInt(g.now().Unix(), 10),
		NonceStr:  g.nonce(),
		Package:   "prepay_id=" + prepayID,
		SignType:  SignTypeMD5,
	}
	p.PaySign = Sign(Params{
		"appId":     p.AppID,
		"timeStamp": p.TimeStamp,
		"nonceStr":  p.NonceStr,
		"package":   p.Package,
		"signType":  p.SignType,
	}, g.cfg.APIKey)
	return p
}

// NotifyReply 回复微信支付通知的 XML 报文
func NotifyReply(ok bool, msg string) string {
	code := CodeSuccess
	if !ok {
		code = CodeFail
	}
	return ToXMLCDATA(Params{
		"return_code": code,
		"return_msg":  msg,
	})
}

// post 发送 XML 报文并解析响应，HTTP 层错误和非 200 状态均视为传输错误
func (g *Gateway) post(ctx context.Context, client *resty.Client, path string, params Params) (Params, error) {
	body := ToXML(params)
	logger.DebugString("WechatPay", "Request", path+" "+body)

	resp, err := client.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode())
	}

	logger.DebugString("WechatPay", "Response", path+" "+resp.String())
	return FromXML(resp.String()), nil
}

func newOrderResult(resp Params) *OrderResult {
	r := &OrderResult{
		ReturnCode: resp.Get("return_code"),
		ReturnMsg:  resp.Get("return_msg"),
		ResultCode: resp.Get("result_code"),
		PrepayID:   resp.Get("prepay_id"),
		Raw:        resp,
	}
	if !r.Success() {
		r.ErrorDescription = firstNonEmpty(resp.Get("err_code_des"), resp.Get("return_msg"), MsgCreateOrderFailed)
	}
	return r
}

func failedOrder(msg string) *OrderResult {
	return &OrderResult{
		ReturnCode:       CodeFail,
		ResultCode:       CodeFail,
		ReturnMsg:        msg,
		ErrorDescription: msg,
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
