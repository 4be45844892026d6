package transfer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewDefaults(t *testing.T) {
	tr := New("100.00元", amount("0.1"), "张三")
	assert.Len(t, tr.ID, 36)
	assert.Equal(t, StatusPending, tr.Status)
	assert.Equal(t, AccountAvailable, tr.AccountStatus)
	assert.Equal(t, DefaultTheme, tr.Theme)
	assert.Equal(t, DefaultAvatar, tr.SenderAvatar)
	require.NoError(t, tr.Validate())

	tr.ActualAmount = decimal.Zero
	assert.Error(t, tr.Validate())
}

func TestApply(t *testing.T) {
	tr := New("100.00元", amount("0.1"), "张三")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	msg := "新年快乐"
	tr.Apply(Patch{Message: &msg}, now)
	assert.Equal(t, "新年快乐", tr.Message)
	assert.Nil(t, tr.ReceivedAt)

	received := StatusReceived
	tr.Apply(Patch{Status: &received}, now)
	require.NotNil(t, tr.ReceivedAt)
	assert.Equal(t, now, *tr.ReceivedAt)

	// 重复领取不覆盖领取时间
	tr.Apply(Patch{Status: &received}, now.Add(time.Hour))
	assert.Equal(t, now, *tr.ReceivedAt)
}

func TestDisplayAmount(t *testing.T) {
	assert.True(t, DisplayAmount("100.00元").Equal(amount("100")))
	assert.True(t, DisplayAmount("¥8.88").Equal(amount("8.88")))
	assert.True(t, DisplayAmount("红包").IsZero())
}

func record(name, actual string, created time.Time) Transfer {
	tr := New(name, amount(actual), "张三")
	tr.CreatedAt = created
	return *tr
}

func TestSummarize(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, loc)

	transfers := []Transfer{
		record("100.00元", "0.10", now.Add(-time.Hour)),
		record("50元", "0.20", now.AddDate(0, 0, -1)),
		record("8.88元", "1.00", now.AddDate(0, 0, -30)),
	}

	s := Summarize(transfers, now)
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, "158.88", s.TotalDisplayAmount)
	assert.Equal(t, "1.30", s.TotalActualAmount)
	assert.Equal(t, 1, s.TodayCount)
	assert.Equal(t, "0.10", s.TodayActualAmount)

	require.Len(t, s.Last7Days, 7)
	assert.Equal(t, "2024-05-04", s.Last7Days[0].Date)
	assert.Equal(t, "2024-05-10", s.Last7Days[6].Date)
	assert.Equal(t, 1, s.Last7Days[6].Count)
	assert.Equal(t, 1, s.Last7Days[5].Count)
	assert.True(t, s.Last7Days[5].ActualAmount.Equal(amount("0.2")))
	assert.Equal(t, 0, s.Last7Days[0].Count)
}

func TestDaily(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2024, 5, d, h, 0, 0, 0, time.UTC)
	}
	transfers := []Transfer{
		record("1元", "1", day(3, 9)),
		record("1元", "2", day(1, 23)),
		record("1元", "3", day(3, 10)),
		record("1元", "4", day(6, 0)),
	}

	stats := Daily(transfers, day(1, 12), day(5, 0))
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-05-01", stats[0].Date)
	assert.Equal(t, "2024-05-03", stats[1].Date)
	assert.Equal(t, 2, stats[1].Count)
	assert.True(t, stats[1].ActualAmount.Equal(amount("4")))
}
