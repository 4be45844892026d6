package middlewares

import (
	"sync"
	"time"

	"redpacket/pkg/app"
	"redpacket/pkg/limiter"
	"redpacket/pkg/logger"
	"redpacket/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 默认突发请求数量
	DefaultBurst = 100
	// DefaultTimeout 默认等待超时时间
	DefaultTimeout = 50 * time.Millisecond
)

var (
	// 用于存储限流器的并发安全缓存
	limiters    sync.Map
	// 限流器最近一次被使用的时间
	lastAccess  sync.Map
	cleanupOnce sync.Once
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limit   string
	Burst   int
	Timeout time.Duration
}

// LimitIP 全局限流中间件，针对 IP 进行限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
//
// 特性:
// - 支持突发流量处理
// - 自动清理过期限流器
// - 启用 Redis 时使用 Redis 存储，多实例共享计数
// - 优雅降级
func LimitIP(limit string) gin.HandlerFunc {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}

	config := RateLimitConfig{
		Limit:   limit,
		Burst:   DefaultBurst,
		Timeout: DefaultTimeout,
	}

	return createLimiterHandler(func(c *gin.Context) string {
		return limiter.GetKeyIP(c)
	}, config)
}

// LimitPerRoute 针对单个路由的限流中间件
//
// 特性:
// - 基于 IP + 路由路径进行限流
// - 支持动态调整限流策略
// - 自动清理过期数据
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	config := RateLimitConfig{
		Limit:   limit,
		Burst:   DefaultBurst,
		Timeout: DefaultTimeout,
	}

	return createLimiterHandler(func(c *gin.Context) string {
		return limiter.GetKeyRouteWithIP(c)
	}, config)
}

// createLimiterHandler 创建限流处理器
// keyFunc: 用于生成限流键的函数
// config: 限流配置
func createLimiterHandler(keyFunc func(*gin.Context) string, config RateLimitConfig) gin.HandlerFunc {
	// 定期清理过期的限流器
	cleanupOnce.Do(func() {
		go cleanupLimiters()
	})

	return func(c *gin.Context) {
		// 同一 IP 在不同限额下使用各自的计数
		key := config.Limit + ":" + keyFunc(c)

		if limiter.Enabled() {
			limitRedis(c, key, config)
			return
		}

		// 获取或创建限流器
		lim, err := getLimiter(key, config)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}
		lastAccess.Store(key, time.Now())

		// 尝试获取令牌
		if !lim.Allow() {
			response.Abort429(c)
			return
		}

		// 设置 RateLimit 相关响应头
		setRateLimitHeaders(c, lim)

		c.Next()
	}
}

// limitRedis 基于 Redis 存储的限流
func limitRedis(c *gin.Context, key string, config RateLimitConfig) {
	result, err := limiter.CheckRate(c, key, config.Limit)
	if err != nil {
		logger.LogIf(err)
		// 降级处理：允许请求通过
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", cast.ToString(result.Limit))
	c.Header("X-RateLimit-Remaining", cast.ToString(result.Remaining))
	c.Header("X-RateLimit-Reset", cast.ToString(result.Reset))

	if result.Reached {
		response.Abort429(c)
		return
	}
	c.Next()
}

// getLimiter 获取或创建限流器
func getLimiter(key string, config RateLimitConfig) (*rate.Limiter, error) {
	// 尝试从缓存获取限流器
	if lim, exists := limiters.Load(key); exists {
		return lim.(*rate.Limiter), nil
	}

	// 解析限流配置
	r, err := limiter.ParseLimit(config.Limit)
	if err != nil {
		return nil, err
	}

	// 创建新的限流器
	lim := rate.NewLimiter(rate.Limit(r.Rate), config.Burst)

	// 并发安全地存储限流器
	actual, _ := limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter), nil
}

// setRateLimitHeaders 设置限流相关的响应头
func setRateLimitHeaders(c *gin.Context, lim *rate.Limiter) {
	c.Header("X-RateLimit-Limit", cast.ToString(lim.Limit()))
	c.Header("X-RateLimit-Remaining", cast.ToString(lim.Tokens()))
	c.Header("X-RateLimit-Reset", cast.ToString(time.Now().Add(time.Second).Unix()))
}

// cleanupLimiters 定期清理超过 24 小时未使用的限流器
func cleanupLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		now := time.Now()
		limiters.Range(func(key, value interface{}) bool {
			last, ok := lastAccess.Load(key)
			if !ok || now.Sub(last.(time.Time)) > 24*time.Hour {
				limiters.Delete(key)
				lastAccess.Delete(key)
			}
			return true
		})
	}
}
