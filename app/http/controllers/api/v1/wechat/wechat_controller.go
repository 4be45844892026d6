package wechat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"redpacket/pkg/config"
	"redpacket/pkg/logger"
	"redpacket/pkg/response"
	"redpacket/pkg/wechat"
)

// WechatController 公众号 JS-SDK、服务器验证与网页授权
type WechatController struct {
	client *wechat.Client
}

// NewWechatController 创建控制器
func NewWechatController(client *wechat.Client) *WechatController {
	return &WechatController{client: client}
}

// Config 生成 JS-SDK 配置，url 为当前页面地址
func (wc *WechatController) Config(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		response.Abort400(c, "缺少 url 参数")
		return
	}

	cfg, err := wc.client.JSConfig(c.Request.Context(), pageURL)
	if err != nil {
		logger.ErrorString("Wechat", "JSConfig", err.Error())
		var apiErr *wechat.APIError
		if errors.As(err, &apiErr) {
			response.Abort500(c, "获取微信配置失败: "+apiErr.Msg)
			return
		}
		response.Abort500(c, "获取微信配置失败")
		return
	}
	response.Data(c, cfg)
}

// Verify 公众号服务器地址验证，成功时原样返回 echostr
func (wc *WechatController) Verify(c *gin.Context) {
	signature := c.Query("signature")
	timestamp := c.Query("timestamp")
	nonce := c.Query("nonce")
	echostr := c.Query("echostr")
	if signature == "" || timestamp == "" || nonce == "" {
		response.Abort400(c, "缺少验证参数")
		return
	}

	if !wc.client.VerifyServer(signature, timestamp, nonce) {
		response.Abort403(c, "签名验证失败")
		return
	}
	response.Text(c, http.StatusOK, echostr)
}

// AuthURL 生成网页授权跳转地址
func (wc *WechatController) AuthURL(c *gin.Context) {
	redirect := c.Query("redirect")
	if redirect == "" {
		response.Abort400(c, "缺少 redirect 参数")
		return
	}
	response.Data(c, gin.H{
		"url": wc.client.AuthURL(redirect, c.Query("state"), c.DefaultQuery("scope", wechat.ScopeBase)),
	})
}

// OAuthCallback 用 code 换取 openid，scope 为 snsapi_userinfo 时附带用户信息
func (wc *WechatController) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Abort400(c, "缺少 code 参数")
		return
	}

	token, err := wc.client.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.ErrorString("Wechat", "OAuth", err.Error())
		response.Abort500(c, "网页授权失败")
		return
	}

	data := gin.H{
		"openid": token.OpenID,
		"scope":  token.Scope,
	}
	if token.Scope == wechat.ScopeUserInfo {
		if info, err := wc.client.UserInfo(c.Request.Context(), token.AccessToken, token.OpenID); err == nil {
			data["userInfo"] = info
		}
	}
	response.Data(c, data)
}

// Diag 诊断公众号凭证与接口连通性
func (wc *WechatController) Diag(c *gin.Context) {
	response.Data(c, wc.client.Diagnose(c.Request.Context(), config.GetString("app.env")))
}
