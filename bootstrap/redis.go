package bootstrap

import (
	"fmt"

	"redpacket/pkg/config"
	"redpacket/pkg/logger"
	"redpacket/pkg/redis"
)

// SetupRedis 初始化 Redis，未启用时回调锁、令牌缓存和限流使用进程内实现
func SetupRedis() error {
	if !config.GetBool("redis.enabled") {
		logger.InfoString("Redis", "Setup", "未启用 Redis，使用进程内实现")
		return nil
	}

	err := redis.ConnectRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetString("redis.prefix"),
	)
	if err != nil {
		return err
	}
	logger.InfoString("Redis", "Setup", "Redis 连接成功")
	return nil
}
