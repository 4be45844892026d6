package statistic

import (
	"time"

	"github.com/gin-gonic/gin"

	"redpacket/app/models/transfer"
	"redpacket/app/repositories"
	"redpacket/pkg/app"
	"redpacket/pkg/response"
)

const dateLayout = "2006-01-02"

// StatisticController 统计
type StatisticController struct {
	transfers repositories.TransferRepository
}

// NewStatisticController 创建控制器
func NewStatisticController(transfers repositories.TransferRepository) *StatisticController {
	return &StatisticController{transfers: transfers}
}

// Summary 总数、今日与最近 7 天
func (sc *StatisticController) Summary(c *gin.Context) {
	all, err := sc.transfers.All(c.Request.Context())
	if err != nil {
		response.Abort500(c, "获取统计数据失败")
		return
	}
	response.Data(c, transfer.Summarize(all, app.TimenowInTimezone()))
}

// Daily 按日期分组，startDate、endDate 缺省为今天
func (sc *StatisticController) Daily(c *gin.Context) {
	now := app.TimenowInTimezone()
	start, err := parseDate(c.Query("startDate"), now)
	if err != nil {
		response.Abort400(c, "startDate 格式应为 YYYY-MM-DD")
		return
	}
	end, err := parseDate(c.Query("endDate"), now)
	if err != nil {
		response.Abort400(c, "endDate 格式应为 YYYY-MM-DD")
		return
	}

	all, err := sc.transfers.All(c.Request.Context())
	if err != nil {
		response.Abort500(c, "获取每日统计数据失败")
		return
	}
	response.Data(c, transfer.Daily(all, start, end))
}

func parseDate(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return time.ParseInLocation(dateLayout, value, def.Location())
}
