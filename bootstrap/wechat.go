package bootstrap

import (
	"strings"
	"time"

	"redpacket/pkg/app"
	"redpacket/pkg/config"
	"redpacket/pkg/logger"
	paywechat "redpacket/pkg/payment/wechat"
	"redpacket/pkg/redis"
	"redpacket/pkg/wechat"
)

// SetupWechat 初始化公众号客户端，启用 Redis 时令牌缓存在 Redis
func SetupWechat() *wechat.Client {
	cfg := wechat.Config{
		AppID:     config.GetString("wechat.app_id"),
		AppSecret: config.GetString("wechat.app_secret"),
		Token:     config.GetString("wechat.token"),
		APIURL:    config.GetString("wechat.api_url"),
		Timeout:   time.Duration(config.GetInt("wechat.timeout")) * time.Second,
	}
	// 非生产环境缺少凭证时返回模拟的 JS-SDK 配置
	cfg.Mock = !app.IsProduction() && (cfg.AppID == "" || cfg.AppSecret == "")
	if cfg.Mock {
		logger.WarnString("Wechat", "Setup", "未配置公众号凭证，JS-SDK 使用模拟配置")
	}

	var cache wechat.Cache
	if redis.Redis != nil {
		cache = redis.Redis
	}
	return wechat.New(cfg, cache)
}

// SetupPaymentGateway 初始化微信支付网关
func SetupPaymentGateway() *paywechat.Gateway {
	notifyURL := config.GetString("wechat.notify_url")
	if notifyURL == "" {
		notifyURL = strings.TrimRight(config.GetString("app.url"), "/") + "/api/payment/notify"
	}

	cfg := paywechat.Config{
		AppID:     config.GetString("wechat.app_id"),
		MchID:     config.GetString("wechat.mch_id"),
		APIKey:    config.GetString("wechat.api_key"),
		NotifyURL: notifyURL,
		BaseURL:   config.GetString("wechat.pay_url"),
		Timeout:   time.Duration(config.GetInt("wechat.timeout")) * time.Second,
		CertPath:  config.GetString("wechat.cert_path"),
		KeyPath:   config.GetString("wechat.key_path"),
	}
	if cfg.MchID == "" || cfg.APIKey == "" {
		logger.WarnString("Wechat", "Setup", "未配置微信支付商户号或 API 密钥")
	}
	return paywechat.NewGateway(cfg)
}
