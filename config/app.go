// Package config 站点配置信息
package config

import "redpacket/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "RedPacket"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("PORT", "5000"),

			// 站点地址，用于拼接微信支付回调地址
			"url": config.Env("SITE_URL", "http://localhost:5000"),

			// 设置时区，日志和统计里会使用到
			"timezone": config.Env("TIMEZONE", "Asia/Shanghai"),

			// 每小时每 IP 的请求数
			"api_rate_limit": config.Env("API_RATE_LIMIT", "30000-H"),

			// 雪花算法节点编号，多实例部署时需各不相同
			"node_id": config.Env("SNOWFLAKE_NODE_ID", 1),
		}
	})
}
