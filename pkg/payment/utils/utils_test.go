package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNo(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		no := GenerateOrderNo()
		assert.True(t, strings.HasPrefix(no, OrderNoPrefix))
		assert.LessOrEqual(t, len(no), 32)
		seen[no] = struct{}{}
	}
	assert.Len(t, seen, 1000)

	assert.True(t, strings.HasPrefix(GeneratePayoutNo(), PayoutPrefix))
}

func TestGenerateNonceStr(t *testing.T) {
	a, b := GenerateNonceStr(), GenerateNonceStr()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[A-Za-z0-9]{32}$`, a)
}

func TestYuanFen(t *testing.T) {
	assert.Equal(t, int64(10), YuanToFen(decimal.RequireFromString("0.1")))
	assert.Equal(t, int64(10000), YuanToFen(decimal.RequireFromString("100")))
	assert.Equal(t, int64(1), YuanToFen(decimal.RequireFromString("0.005")))
	assert.True(t, FenToYuan(1234).Equal(decimal.RequireFromString("12.34")))
}
