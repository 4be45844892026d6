package health

import (
	"github.com/gin-gonic/gin"

	"redpacket/pkg/app"
	"redpacket/pkg/config"
	"redpacket/pkg/response"
)

// HealthController 健康检查
type HealthController struct {
	driver string
}

// NewHealthController 创建控制器，driver 为当前存储后端
func NewHealthController(driver string) *HealthController {
	return &HealthController{driver: driver}
}

// Show 返回服务状态
func (hc *HealthController) Show(c *gin.Context) {
	response.Data(c, gin.H{
		"name":    config.GetString("app.name"),
		"env":     config.GetString("app.env"),
		"storage": hc.driver,
		"time":    app.TimenowInTimezone(),
	})
}
