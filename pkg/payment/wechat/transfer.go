package wechat

import (
	"context"
	"fmt"

	"redpacket/pkg/logger"
)

// 企业付款校验姓名选项
const (
	CheckNameNone  = "NO_CHECK"
	CheckNameForce = "FORCE_CHECK"
)

// PayoutRequest 企业付款到零钱
type PayoutRequest struct {
	PartnerTradeNo string
	OpenID         string
	Amount         int64 // 单位：分
	Desc           string
	CheckName      string
	ReUserName     string
	ClientIP       string
}

// PayoutResult 企业付款及其查询结果
type PayoutResult struct {
	ReturnCode     string `json:"returnCode"`
	ReturnMsg      string `json:"returnMsg,omitempty"`
	ResultCode     string `json:"resultCode"`
	ErrCode        string `json:"errCode,omitempty"`
	ErrCodeDes     string `json:"errCodeDes,omitempty"`
	PartnerTradeNo string `json:"partnerTradeNo,omitempty"`
	PaymentNo      string `json:"paymentNo,omitempty"`
	PaymentTime    string `json:"paymentTime,omitempty"`
	Status         string `json:"status,omitempty"`
	Raw            Params `json:"-"`
}

// Success return_code 与 result_code 均为 SUCCESS
func (r *PayoutResult) Success() bool {
	return r != nil && r.ReturnCode == CodeSuccess && r.ResultCode == CodeSuccess
}

// Description 失败原因
func (r *PayoutResult) Description() string {
	return firstNonEmpty(r.ErrCodeDes, r.ReturnMsg, MsgTransferFailed)
}

// TransferToBalance 企业付款到用户零钱，需要商户证书
func (g *Gateway) TransferToBalance(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	if g.payoutClient == nil {
		return nil, ErrCertificateMissing
	}
	if req.PartnerTradeNo == "" || req.OpenID == "" || req.Amount <= 0 {
		return nil, fmt.Errorf("%w: partner_trade_no, openid and amount are required", ErrInvalidOrder)
	}

	params := Params{
		"mch_appid":        g.cfg.AppID,
		"mchid":            g.cfg.MchID,
		"nonce_str":        g.nonce(),
		"partner_trade_no": req.PartnerTradeNo,
		"openid":           req.OpenID,
		"check_name":       withDefault(req.CheckName, CheckNameNone),
		"desc":             withDefault(req.Desc, "红包转账"),
		"spbill_create_ip": withDefault(req.ClientIP, "127.0.0.1"),
	}
	if params["check_name"] == CheckNameForce {
		params["re_user_name"] = req.ReUserName
	}
	params.SetInt("amount", req.Amount)
	params[FieldSign] = Sign(params, g.cfg.APIKey)

	resp, err := g.post(ctx, g.payoutClient, PathTransfer, params)
	if err != nil {
		logger.ErrorString("WechatPay", "企业付款", fmt.Sprintf("partner_trade_no=%s, err=%v", req.PartnerTradeNo, err))
		return &PayoutResult{
			ReturnCode:     CodeFail,
			ResultCode:     CodeFail,
			ReturnMsg:      MsgTransferFailed,
			PartnerTradeNo: req.PartnerTradeNo,
		}, nil
	}
	return newPayoutResult(resp), nil
}

// QueryTransfer 查询企业付款结果
func (g *Gateway) QueryTransfer(ctx context.Context, partnerTradeNo string) (*PayoutResult, error) {
	if g.payoutClient == nil {
		return nil, ErrCertificateMissing
	}

	params := Params{
		"appid":            g.cfg.AppID,
		"mch_id":           g.cfg.MchID,
		"nonce_str":        g.nonce(),
		"partner_trade_no": partnerTradeNo,
	}
	params[FieldSign] = Sign(params, g.cfg.APIKey)

	resp, err := g.post(ctx, g.payoutClient, PathTransferQuery, params)
	if err != nil {
		return nil, fmt.Errorf("query transfer %s: %w", partnerTradeNo, err)
	}
	return newPayoutResult(resp), nil
}

func newPayoutResult(resp Params) *PayoutResult {
	return &PayoutResult{
		ReturnCode:     resp.Get("return_code"),
		ReturnMsg:      resp.Get("return_msg"),
		ResultCode:     resp.Get("result_code"),
		ErrCode:        resp.Get("err_code"),
		ErrCodeDes:     resp.Get("err_code_des"),
		PartnerTradeNo: resp.Get("partner_trade_no"),
		PaymentNo:      firstNonEmpty(resp.Get("payment_no"), resp.Get("detail_id")),
		PaymentTime:    firstNonEmpty(resp.Get("payment_time"), resp.Get("transfer_time")),
		Status:         resp.Get("status"),
		Raw:            resp,
	}
}
