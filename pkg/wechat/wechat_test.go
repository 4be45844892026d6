package wechat

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()

	c := New(cfg, nil)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.nonce = func() string { return "n1" }

	httpmock.ActivateNonDefault(c.http.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func credentials() Config {
	return Config{AppID: "wx1", AppSecret: "secret", Token: "tok"}
}

func TestAuthURL(t *testing.T) {
	c := New(credentials(), nil)

	got := c.AuthURL("http://example.com/cb?a=1", "", "")
	assert.Equal(t,
		"https://open.weixin.qq.com/connect/oauth2/authorize?appid=wx1&redirect_uri=http%3A%2F%2Fexample.com%2Fcb%3Fa%3D1&response_type=code&scope=snsapi_base&state=STATE#wechat_redirect",
		got)

	assert.Contains(t, c.AuthURL("http://x", "s1", ScopeUserInfo), "scope=snsapi_userinfo&state=s1")
}

func TestExchange(t *testing.T) {
	c := newTestClient(t, credentials())

	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/sns/oauth2/access_token",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "code1", req.URL.Query().Get("code"))
			assert.Equal(t, "authorization_code", req.URL.Query().Get("grant_type"))
			return httpmock.NewStringResponse(200,
				`{"access_token":"at","expires_in":7200,"refresh_token":"rt","openid":"o1","scope":"snsapi_base"}`), nil
		})

	token, err := c.Exchange(context.Background(), "code1")
	require.NoError(t, err)
	assert.Equal(t, "o1", token.OpenID)
	assert.Equal(t, "rt", token.RefreshToken)
}

func TestExchangeAPIError(t *testing.T) {
	c := newTestClient(t, credentials())

	// 微信返回 text/plain 的 JSON
	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/sns/oauth2/access_token",
		httpmock.NewStringResponder(200, `{"errcode":40029,"errmsg":"invalid code"}`).
			HeaderSet(http.Header{"Content-Type": []string{"text/plain"}}))

	_, err := c.Exchange(context.Background(), "bad")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 40029, apiErr.Code)
}

func TestRefreshAndUserInfo(t *testing.T) {
	c := newTestClient(t, credentials())

	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/sns/oauth2/refresh_token",
		httpmock.NewStringResponder(200, `{"access_token":"at2","expires_in":7200,"refresh_token":"rt2","openid":"o1"}`))
	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/sns/userinfo",
		httpmock.NewStringResponder(200, `{"openid":"o1","nickname":"张三","sex":1,"headimgurl":"http://img"}`))

	token, err := c.Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "at2", token.AccessToken)

	info, err := c.UserInfo(context.Background(), token.AccessToken, token.OpenID)
	require.NoError(t, err)
	assert.Equal(t, "张三", info.Nickname)
}

func TestVerify(t *testing.T) {
	c := newTestClient(t, credentials())

	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/sns/auth",
		func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("access_token") == "good" {
				return httpmock.NewStringResponse(200, `{"errcode":0,"errmsg":"ok"}`), nil
			}
			return httpmock.NewStringResponse(200, `{"errcode":40003,"errmsg":"invalid openid"}`), nil
		})

	assert.True(t, c.Verify(context.Background(), "good", "o1"))
	assert.False(t, c.Verify(context.Background(), "bad", "o1"))
}

func TestJSConfig(t *testing.T) {
	c := newTestClient(t, credentials())

	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/cgi-bin/token",
		httpmock.NewStringResponder(200, `{"access_token":"at","expires_in":7200}`))
	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/cgi-bin/ticket/getticket",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "at", req.URL.Query().Get("access_token"))
			return httpmock.NewStringResponse(200, `{"errcode":0,"errmsg":"ok","ticket":"t1","expires_in":7200}`), nil
		})

	cfg, err := c.JSConfig(context.Background(), "http://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "wx1", cfg.AppID)
	assert.Equal(t, int64(1700000000), cfg.Timestamp)
	assert.Equal(t, "d9304ec3670dcf8c185540ca24bccfd97465e492", cfg.Signature)
	assert.False(t, cfg.Mock)

	// 第二次命中缓存
	_, err = c.JSConfig(context.Background(), "http://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())

	_, err = c.JSConfig(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestJSConfigMockAndMissingCredentials(t *testing.T) {
	c := newTestClient(t, Config{Mock: true})
	cfg, err := c.JSConfig(context.Background(), "http://example.com")
	require.NoError(t, err)
	assert.True(t, cfg.Mock)

	c = newTestClient(t, Config{})
	_, err = c.JSConfig(context.Background(), "http://example.com")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestVerifyServer(t *testing.T) {
	c := New(credentials(), nil)
	assert.True(t, c.VerifyServer("8633893fb43e07cf18bde4ef3cc3af60cad003d3", "1700000000", "n1"))
	assert.False(t, c.VerifyServer("8633893fb43e07cf18bde4ef3cc3af60cad003d3", "1700000000", "n2"))
}

func TestDiagnose(t *testing.T) {
	c := newTestClient(t, credentials())

	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/cgi-bin/token",
		httpmock.NewStringResponder(200, `{"access_token":"abcdefghijklmnopqrstuvwxyz","expires_in":7200}`))
	httpmock.RegisterResponder(http.MethodGet, DefaultAPIURL+"/cgi-bin/ticket/getticket",
		httpmock.NewStringResponder(200, `{"errcode":40001,"errmsg":"invalid credential"}`))

	d := c.Diagnose(context.Background(), "local")
	assert.False(t, d.Success)
	require.Len(t, d.Checks, 3)
	assert.Equal(t, CheckSuccess, d.Checks[1].Status)
	assert.Equal(t, "abcdefghijklmnopqrst...", d.Checks[1].Details["token"])
	assert.Equal(t, CheckError, d.Checks[2].Status)

	d = New(Config{}, nil).Diagnose(context.Background(), "local")
	assert.False(t, d.Success)
	assert.Len(t, d.Checks, 1)
}

func TestMemoryCache(t *testing.T) {
	m := NewMemoryCache()
	m.Set("a", "1", 0)
	m.Set("b", "2", time.Nanosecond)
	time.Sleep(time.Millisecond)

	assert.Equal(t, "1", m.Get("a"))
	assert.Equal(t, "", m.Get("b"))
	assert.Equal(t, 60*time.Second, cacheTTL(100))
	assert.Equal(t, 7000*time.Second, cacheTTL(7200))
}
