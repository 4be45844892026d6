package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redpacket/pkg/payment/types"
)

func TestNew(t *testing.T) {
	p := New("t1", decimal.RequireFromString("0.1"), "红包")
	assert.Equal(t, types.StatusPending, p.Status)
	assert.True(t, strings.HasPrefix(p.OrderID, "PAY"))
	assert.NotEqual(t, p.OrderID, New("t1", decimal.RequireFromString("0.1"), "红包").OrderID)
}

func TestTransition(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p := New("t1", decimal.RequireFromString("0.1"), "红包")
	p.MarkCreated("prepay1")
	assert.Equal(t, types.StatusCreated, p.Status)
	assert.Equal(t, "prepay1", p.PrepayID)

	assert.True(t, p.Transition(types.StatusPaid, "tx1", now))
	assert.True(t, p.IsSuccess())
	assert.Equal(t, "tx1", p.TransactionID)
	require.NotNil(t, p.PaidAt)

	// 终态不再变更
	assert.False(t, p.Transition(types.StatusRefunded, "tx2", now))
	assert.Equal(t, types.StatusPaid, p.Status)
	assert.Equal(t, "tx1", p.TransactionID)
}

func TestMarkFailed(t *testing.T) {
	p := New("t1", decimal.RequireFromString("0.1"), "红包")
	p.MarkFailed("余额不足")
	assert.True(t, p.IsTerminal())
	assert.Equal(t, "余额不足", p.Error)
	assert.False(t, p.Transition(types.StatusPaid, "", time.Now()))
}
