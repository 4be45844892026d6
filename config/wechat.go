package config

import "redpacket/pkg/config"

func init() {
	config.Add("wechat", func() map[string]interface{} {
		return map[string]interface{}{
			// 公众号
			"app_id":     config.Env("WECHAT_APP_ID", ""),
			"app_secret": config.Env("WECHAT_APP_SECRET", ""),
			"token":      config.Env("WECHAT_TOKEN", ""),

			// 微信支付商户
			"mch_id":     config.Env("WECHAT_MCH_ID", ""),
			"api_key":    config.Env("WECHAT_API_KEY", ""),
			"notify_url": config.Env("WECHAT_NOTIFY_URL", ""),
			"pay_url":    config.Env("WECHAT_PAY_URL", "https://api.mch.weixin.qq.com"),
			"api_url":    config.Env("WECHAT_API_URL", "https://api.weixin.qq.com"),

			// 企业付款到零钱所需的商户证书
			"cert_path": config.Env("WECHAT_CERT_PATH", "cert/apiclient_cert.pem"),
			"key_path":  config.Env("WECHAT_KEY_PATH", "cert/apiclient_key.pem"),

			// 请求超时，单位秒
			"timeout": config.Env("WECHAT_TIMEOUT", 10),
		}
	})
}
