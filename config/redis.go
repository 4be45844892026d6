package config

import (
	"redpacket/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			// 未启用时，回调幂等锁、令牌缓存和限流均退回进程内实现
			"enabled": config.Env("REDIS_ENABLED", false),

			"host":     config.Env("REDIS_HOST", "127.0.0.1"),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// 业务类存储使用 1 号库（包括限流）
			"database": config.Env("REDIS_MAIN_DB", 1),

			// 键前缀
			"prefix": config.Env("REDIS_PREFIX", "redpacket"),
		}
	})
}
