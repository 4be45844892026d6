package wechat

import (
	"context"
	"strconv"
	"time"

	paywechat "redpacket/pkg/payment/wechat"
)

const (
	cacheKeyAccessToken = "wechat:access_token:"
	cacheKeyTicket      = "wechat:jsapi_ticket:"
)

// JSConfig 前端 wx.config 所需参数
type JSConfig struct {
	AppID     string `json:"appId"`
	Timestamp int64  `json:"timestamp"`
	NonceStr  string `json:"nonceStr"`
	Signature string `json:"signature"`
	Mock      bool   `json:"mock,omitempty"`
}

type accessTokenResponse struct {
	apiStatus
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type ticketResponse struct {
	apiStatus
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expires_in"`
}

// AccessToken 获取全局 access_token，优先读缓存
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	key := cacheKeyAccessToken + c.cfg.AppID
	if token := c.cache.Get(key); token != "" {
		return token, nil
	}

	resp, err := c.fetchAccessToken(ctx)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, resp.AccessToken, cacheTTL(resp.ExpiresIn))
	return resp.AccessToken, nil
}

// JSAPITicket 获取 jsapi_ticket，优先读缓存
func (c *Client) JSAPITicket(ctx context.Context) (string, error) {
	key := cacheKeyTicket + c.cfg.AppID
	if ticket := c.cache.Get(key); ticket != "" {
		return ticket, nil
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	resp, err := c.fetchTicket(ctx, token)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, resp.Ticket, cacheTTL(resp.ExpiresIn))
	return resp.Ticket, nil
}

// JSConfig 生成指定页面的 JS-SDK 配置
func (c *Client) JSConfig(ctx context.Context, pageURL string) (*JSConfig, error) {
	if pageURL == "" {
		return nil, ErrMissingURL
	}

	cfg := &JSConfig{
		AppID:     c.cfg.AppID,
		Timestamp: c.now().Unix(),
		NonceStr:  c.nonce(),
	}
	if c.cfg.Mock {
		cfg.Signature = "mock_signature"
		cfg.Mock = true
		return cfg, nil
	}
	if !c.hasCredentials() {
		return nil, ErrMissingCredentials
	}

	ticket, err := c.JSAPITicket(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Signature = paywechat.SignSHA1(paywechat.Params{
		"jsapi_ticket": ticket,
		"noncestr":     cfg.NonceStr,
		"timestamp":    strconv.FormatInt(cfg.Timestamp, 10),
		"url":          pageURL,
	})
	return cfg, nil
}

// VerifyServer 校验微信服务器接入请求
func (c *Client) VerifyServer(signature, timestamp, nonce string) bool {
	return paywechat.VerifyServerSignature(c.cfg.Token, timestamp, nonce, signature)
}

func (c *Client) fetchAccessToken(ctx context.Context) (*accessTokenResponse, error) {
	if !c.hasCredentials() {
		return nil, ErrMissingCredentials
	}

	var resp accessTokenResponse
	err := c.get(ctx, "/cgi-bin/token", map[string]string{
		"grant_type": "client_credential",
		"appid":      c.cfg.AppID,
		"secret":     c.cfg.AppSecret,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) fetchTicket(ctx context.Context, accessToken string) (*ticketResponse, error) {
	var resp ticketResponse
	err := c.get(ctx, "/cgi-bin/ticket/getticket", map[string]string{
		"access_token": accessToken,
		"type":         "jsapi",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func cacheTTL(expiresIn int) time.Duration {
	ttl := expiresIn - expiryMargin
	if ttl < 60 {
		ttl = 60
	}
	return time.Duration(ttl) * time.Second
}
