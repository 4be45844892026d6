package wechat

import (
	"context"
	"time"
)

// 诊断项状态
const (
	CheckSuccess = "success"
	CheckError   = "error"
	CheckWarning = "warning"
)

// Check 单项诊断结果
type Check struct {
	Name    string                 `json:"name"`
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details"`
}

// Diagnostics 诊断报告
type Diagnostics struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Checks    []Check   `json:"checks"`
}

func (d *Diagnostics) add(name, status string, details map[string]interface{}) {
	d.Checks = append(d.Checks, Check{Name: name, Status: status, Details: details})
	if status == CheckError {
		d.Success = false
	}
}

// Diagnose 依次检查凭证、access_token 与 jsapi_ticket，不读写缓存
func (c *Client) Diagnose(ctx context.Context, env string) *Diagnostics {
	d := &Diagnostics{Timestamp: c.now(), Success: true}

	credStatus := CheckSuccess
	if !c.hasCredentials() {
		credStatus = CheckError
	}
	d.add("环境变量检查", credStatus, map[string]interface{}{
		"hasAppId":     c.cfg.AppID != "",
		"hasAppSecret": c.cfg.AppSecret != "",
		"appIdValue":   mask(c.cfg.AppID, 6),
		"env":          env,
	})
	if credStatus == CheckError {
		return d
	}

	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		d.add("Access Token获取", CheckError, map[string]interface{}{"error": err.Error()})
		return d
	}
	d.add("Access Token获取", CheckSuccess, map[string]interface{}{
		"token":     mask(token.AccessToken, 20),
		"expiresIn": token.ExpiresIn,
	})

	ticket, err := c.fetchTicket(ctx, token.AccessToken)
	if err != nil {
		d.add("JSAPI Ticket获取", CheckError, map[string]interface{}{"error": err.Error()})
		return d
	}
	d.add("JSAPI Ticket获取", CheckSuccess, map[string]interface{}{
		"ticket":    mask(ticket.Ticket, 20),
		"expiresIn": ticket.ExpiresIn,
	})

	d.add("JS接口安全域名检查", CheckWarning, map[string]interface{}{
		"message": "请在微信公众平台后台确认 JS 接口安全域名",
	})
	return d
}

func mask(s string, keep int) string {
	if s == "" {
		return "missing"
	}
	if len(s) <= keep {
		return s + "..."
	}
	return s[:keep] + "..."
}
