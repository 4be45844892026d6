// Package limiter 处理限流逻辑
package limiter

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"redpacket/pkg/config"
	"redpacket/pkg/logger"
	"redpacket/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Rate 定义限流速率
type Rate struct {
	Rate float64
}

var (
	store     limiterlib.Store
	storeErr  error
	storeOnce sync.Once
)

// ParseLimit 解析限流配置字符串
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (*Rate, error) {
	// 将 "5-S" 格式转换为 "5/S" 格式，交由 limiterlib 校验
	if _, err := limiterlib.NewRateFromFormatted(strings.ReplaceAll(limit, "-", "/")); err != nil {
		return nil, fmt.Errorf("invalid limit format: %w", err)
	}

	parts := strings.Split(limit, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid limit format: %s", limit)
	}

	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate value: %s", parts[0])
	}

	// 根据时间单位转换为每秒的速率
	var ratePerSecond float64
	switch strings.ToUpper(parts[1]) {
	case "S":
		ratePerSecond = value
	case "M":
		ratePerSecond = value / 60.0
	case "H":
		ratePerSecond = value / 3600.0
	case "D":
		ratePerSecond = value / 86400.0
	default:
		return nil, fmt.Errorf("invalid time unit: %s", parts[1])
	}

	return &Rate{Rate: ratePerSecond}, nil
}

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// Enabled 是否可以使用 Redis 存储做分布式限流
func Enabled() bool {
	return redis.Redis != nil
}

// CheckRate 检测请求是否超额，limit 格式同 ParseLimit
func CheckRate(c *gin.Context, key string, limit string) (limiterlib.Context, error) {
	var context limiterlib.Context

	rate, err := limiterlib.NewRateFromFormatted(strings.ReplaceAll(limit, "-", "/"))
	if err != nil {
		logger.LogIf(err)
		return context, err
	}

	s, err := getStore()
	if err != nil {
		return context, err
	}
	limiterObj := limiterlib.New(s, rate)

	if c.GetBool("limiter-once") {
		// Peek() 取结果，不增加访问次数
		return limiterObj.Peek(c, key)
	}

	// 确保多个路由组里调用 LimitIP 进行限流时，只增加一次访问次数。
	c.Set("limiter-once", true)

	// Get() 取结果且增加访问次数
	return limiterObj.Get(c, key)
}

// getStore 使用程序共用的 redis.Redis 对象初始化存储
func getStore() (limiterlib.Store, error) {
	storeOnce.Do(func() {
		store, storeErr = sredis.NewStoreWithOptions(redis.Redis.Client, limiterlib.StoreOptions{
			// 为 limiter 设置前缀，保持 redis 里数据的整洁
			Prefix: config.GetString("app.name") + ":limiter",
		})
		logger.LogIf(storeErr)
	})
	return store, storeErr
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
