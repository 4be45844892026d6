// Package app 应用信息
package app

import (
	"fmt"
	"time"

	"redpacket/pkg/config"
)

// IsLocal 是否本地开发环境
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsProduction 是否生产环境
func IsProduction() bool {
	return config.Get("app.env") == "production"
}

// IsTesting 是否测试环境
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// Location 返回配置的时区，配置有误时退回 UTC
func Location() *time.Location {
	loc, err := time.LoadLocation(config.GetString("app.timezone", "Asia/Shanghai"))
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimenowInTimezone 获取当前时间，支持时区
func TimenowInTimezone() time.Time {
	return time.Now().In(Location())
}

// StartOfDay 返回 t 所在时区当天的零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MicrosecondsStr 将 time.Duration 类型（nano seconds 为单位）
// 输出为小数点后 3 位的 ms （microsecond 毫秒，千分之一秒）
func MicrosecondsStr(elapsed time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)
}
