package transfer

import (
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"redpacket/pkg/app"
)

const dateLayout = "2006-01-02"

var amountPattern = regexp.MustCompile(`[^0-9.]`)

// DailyStat 单日统计
type DailyStat struct {
	Date         string          `json:"date"`
	Count        int             `json:"count"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
}

// Summary 汇总统计
type Summary struct {
	TotalCount         int         `json:"totalCount"`
	TotalDisplayAmount string      `json:"totalDisplayAmount"`
	TotalActualAmount  string      `json:"totalActualAmount"`
	TodayCount         int         `json:"todayCount"`
	TodayActualAmount  string      `json:"todayActualAmount"`
	Last7Days          []DailyStat `json:"last7Days"`
}

// DisplayAmount 从展示金额（如 "100.00元"）中提取数字，无法解析时为 0
func DisplayAmount(displayName string) decimal.Decimal {
	d, err := decimal.NewFromString(amountPattern.ReplaceAllString(displayName, ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Summarize 统计总额、今日与最近 7 天数据，now 决定"今天"和时区
func Summarize(transfers []Transfer, now time.Time) Summary {
	today := app.StartOfDay(now)

	var (
		totalDisplay = decimal.Zero
		totalActual  = decimal.Zero
		todayActual  = decimal.Zero
		todayCount   int
	)
	for _, t := range transfers {
		totalDisplay = totalDisplay.Add(DisplayAmount(t.DisplayName))
		totalActual = totalActual.Add(t.ActualAmount)
		if !t.CreatedAt.In(now.Location()).Before(today) {
			todayCount++
			todayActual = todayActual.Add(t.ActualAmount)
		}
	}

	last7 := make([]DailyStat, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		last7 = append(last7, dayStat(transfers, day))
	}

	return Summary{
		TotalCount:         len(transfers),
		TotalDisplayAmount: totalDisplay.StringFixed(2),
		TotalActualAmount:  totalActual.StringFixed(2),
		TodayCount:         todayCount,
		TodayActualAmount:  todayActual.StringFixed(2),
		Last7Days:          last7,
	}
}

// Daily 按日期分组统计 [start, end] 区间内的记录，按日期升序，无记录的日期不输出
func Daily(transfers []Transfer, start, end time.Time) []DailyStat {
	from := app.StartOfDay(start)
	to := app.StartOfDay(end).AddDate(0, 0, 1)

	grouped := make(map[string]*DailyStat)
	for _, t := range transfers {
		created := t.CreatedAt.In(start.Location())
		if created.Before(from) || !created.Before(to) {
			continue
		}
		key := created.Format(dateLayout)
		stat, ok := grouped[key]
		if !ok {
			stat = &DailyStat{Date: key, ActualAmount: decimal.Zero}
			grouped[key] = stat
		}
		stat.Count++
		stat.ActualAmount = stat.ActualAmount.Add(t.ActualAmount)
	}

	result := make([]DailyStat, 0, len(grouped))
	for _, stat := range grouped {
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

func dayStat(transfers []Transfer, day time.Time) DailyStat {
	next := day.AddDate(0, 0, 1)
	stat := DailyStat{Date: day.Format(dateLayout), ActualAmount: decimal.Zero}
	for _, t := range transfers {
		created := t.CreatedAt.In(day.Location())
		if !created.Before(day) && created.Before(next) {
			stat.Count++
			stat.ActualAmount = stat.ActualAmount.Add(t.ActualAmount)
		}
	}
	return stat
}
