package wechat

import (
	"context"
	"net/url"
)

const (
	ScopeBase     = "snsapi_base"
	ScopeUserInfo = "snsapi_userinfo"
)

// OAuthToken 网页授权 access_token
type OAuthToken struct {
	apiStatus
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
}

// UserInfo 网页授权用户信息
type UserInfo struct {
	apiStatus
	OpenID     string   `json:"openid"`
	Nickname   string   `json:"nickname"`
	Sex        int      `json:"sex"`
	Province   string   `json:"province"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	HeadImgURL string   `json:"headimgurl"`
	Privilege  []string `json:"privilege"`
	UnionID    string   `json:"unionid"`
}

// AuthURL 生成网页授权地址，scope 为空时静默授权
func (c *Client) AuthURL(redirectURI, state, scope string) string {
	if state == "" {
		state = "STATE"
	}
	if scope == "" {
		scope = ScopeBase
	}

	// 参数顺序固定，不使用 url.Values 的字典序
	return c.cfg.OpenURL + "/connect/oauth2/authorize?appid=" + url.QueryEscape(c.cfg.AppID) +
		"&redirect_uri=" + url.QueryEscape(redirectURI) +
		"&response_type=code&scope=" + url.QueryEscape(scope) +
		"&state=" + url.QueryEscape(state) + "#wechat_redirect"
}

// Exchange 用 code 换取网页授权 access_token 与 openid
func (c *Client) Exchange(ctx context.Context, code string) (*OAuthToken, error) {
	var token OAuthToken
	err := c.get(ctx, "/sns/oauth2/access_token", map[string]string{
		"appid":      c.cfg.AppID,
		"secret":     c.cfg.AppSecret,
		"code":       code,
		"grant_type": "authorization_code",
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Refresh 刷新网页授权 access_token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	var token OAuthToken
	err := c.get(ctx, "/sns/oauth2/refresh_token", map[string]string{
		"appid":         c.cfg.AppID,
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// UserInfo 拉取用户信息，需要 snsapi_userinfo 授权
func (c *Client) UserInfo(ctx context.Context, accessToken, openID string) (*UserInfo, error) {
	var info UserInfo
	err := c.get(ctx, "/sns/userinfo", map[string]string{
		"access_token": accessToken,
		"openid":       openID,
		"lang":         "zh_CN",
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Verify 检验网页授权 access_token 是否有效
func (c *Client) Verify(ctx context.Context, accessToken, openID string) bool {
	var status apiStatus
	err := c.get(ctx, "/sns/auth", map[string]string{
		"access_token": accessToken,
		"openid":       openID,
	}, &status)
	return err == nil
}
