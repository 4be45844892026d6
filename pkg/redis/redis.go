/*
	Package redis 提供 Redis 连接和操作的工具包

	1. 连接池管理
	2. 键前缀隔离
	3. 分布式锁（SETNX）
*/
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"redpacket/pkg/logger"

	redis "github.com/redis/go-redis/v9"
)

// 关键配置常量
const (
	// DefaultPoolSize Redis 连接池大小
	DefaultPoolSize = 20
	// DefaultTimeout 默认操作超时时间
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns 最小空闲连接数
	DefaultMinIdleConns = 5
	// DefaultMaxRetries 最大重试次数
	DefaultMaxRetries = 3
	// DefaultIdleTimeout 空闲超时
	DefaultIdleTimeout = 5 * time.Minute
)

// RedisClient Redis 客户端封装
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
	Prefix  string
}

// RedisConfig Redis 配置结构
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	Prefix       string
	PoolSize     int
	MinIdleConns int
	Timeout      time.Duration
}

var (
	once sync.Once
	// Redis 全局实例，未启用 Redis 时为 nil
	Redis *RedisClient
)

// ConnectRedis 初始化全局 Redis 连接
func ConnectRedis(address, username, password string, db int, prefix string) error {
	var err error
	once.Do(func() {
		Redis, err = NewClient(RedisConfig{
			Address:      address,
			Username:     username,
			Password:     password,
			DB:           db,
			Prefix:       prefix,
			PoolSize:     DefaultPoolSize,
			MinIdleConns: DefaultMinIdleConns,
			Timeout:      DefaultTimeout,
		})
	})
	return err
}

// NewClient 创建新的 Redis 客户端并测试连接
func NewClient(config RedisConfig) (*RedisClient, error) {
	rds := &RedisClient{
		Context: context.Background(),
		Prefix:  config.Prefix,
	}

	rds.Client = redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,

		// 连接池配置
		PoolTimeout:     config.Timeout,
		ConnMaxIdleTime: DefaultIdleTimeout,

		// 读写超时
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// 重试策略
		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	if err := rds.Ping(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	return rds, nil
}

// Key 拼接键前缀
func (rds *RedisClient) Key(key string) string {
	return rds.Prefix + key
}

// Ping 测试 Redis 连接
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	_, err := rds.Client.Ping(ctx).Result()
	return err
}

// Set 存储键值对
func (rds *RedisClient) Set(key string, value interface{}, expiration time.Duration) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	if err := rds.Client.Set(ctx, rds.Key(key), value, expiration).Err(); err != nil {
		logger.ErrorString("Redis", "Set", err.Error())
		return false
	}
	return true
}

// Get 获取键值，不存在或出错时返回空串
func (rds *RedisClient) Get(key string) string {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	result, err := rds.Client.Get(ctx, rds.Key(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.ErrorString("Redis", "Get", err.Error())
		}
		return ""
	}
	return result
}

// Has 检查键是否存在
func (rds *RedisClient) Has(key string) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	n, err := rds.Client.Exists(ctx, rds.Key(key)).Result()
	if err != nil {
		logger.ErrorString("Redis", "Has", err.Error())
		return false
	}
	return n > 0
}

// Del 删除键
func (rds *RedisClient) Del(keys ...string) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = rds.Key(k)
	}
	if err := rds.Client.Del(ctx, prefixed...).Err(); err != nil {
		logger.ErrorString("Redis", "Del", err.Error())
		return false
	}
	return true
}

// SetNX 键不存在时写入，返回是否写入成功
func (rds *RedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return rds.Client.SetNX(ctx, rds.Key(key), value, expiration).Result()
}

// unlockScript 仅删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock 释放 SetNX 获得的锁，token 不匹配时不删除
func (rds *RedisClient) Unlock(ctx context.Context, key, token string) error {
	return unlockScript.Run(ctx, rds.Client, []string{rds.Key(key)}, token).Err()
}
