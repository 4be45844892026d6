package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redpacket/app/models/transfer"
	"redpacket/app/repositories"
	"redpacket/pkg/payment/types"
	"redpacket/pkg/payment/wechat"
)

const testKey = "key1"

// fakeGateway 下单、查询与付款走桩，签名相关能力使用真实网关
type fakeGateway struct {
	*wechat.Gateway

	mu       sync.Mutex
	orders   []*wechat.Order
	order    *wechat.OrderResult
	orderErr error
	query    *wechat.QueryResult
	payout   *wechat.PayoutResult
	payouts  []wechat.PayoutRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		Gateway: wechat.NewGateway(wechat.Config{AppID: "wx1", MchID: "10", APIKey: testKey}),
		order: &wechat.OrderResult{
			ReturnCode: wechat.CodeSuccess,
			ResultCode: wechat.CodeSuccess,
			PrepayID:   "prepay1",
		},
	}
}

func (f *fakeGateway) CreateOrder(_ context.Context, order *wechat.Order) (*wechat.OrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
	return f.order, f.orderErr
}

func (f *fakeGateway) QueryOrder(context.Context, string) *wechat.QueryResult {
	return f.query
}

func (f *fakeGateway) TransferToBalance(_ context.Context, req wechat.PayoutRequest) (*wechat.PayoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payouts = append(f.payouts, req)
	if f.payout == nil {
		return nil, wechat.ErrCertificateMissing
	}
	return f.payout, nil
}

type fixture struct {
	ctx      context.Context
	gateway  *fakeGateway
	store    *repositories.Store
	service  *Service
	transfer *transfer.Transfer
	now      time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		ctx:     context.Background(),
		gateway: newFakeGateway(),
		store:   repositories.NewFileStore(t.TempDir()),
		now:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	opts = append([]Option{WithClock(func() time.Time { return f.now })}, opts...)
	f.service = NewService(f.gateway, f.store, opts...)

	f.transfer = transfer.New("100.00元", decimal.RequireFromString("0.1"), "张三")
	f.transfer.ReceiverOpenID = "o1"
	require.NoError(t, f.store.Transfers.Create(f.ctx, f.transfer))
	return f
}

func (f *fixture) create(t *testing.T) *types.Result {
	t.Helper()
	result, err := f.service.Create(f.ctx, types.Request{
		TransferID: f.transfer.ID,
		Amount:     decimal.RequireFromString("0.1"),
		ClientIP:   "1.2.3.4",
	})
	require.NoError(t, err)
	return result
}

func notifyBody(orderID string, secret string) []byte {
	p := wechat.Params{
		"return_code":    "SUCCESS",
		"result_code":    "SUCCESS",
		"out_trade_no":   orderID,
		"transaction_id": "T1",
	}
	p[wechat.FieldSign] = wechat.Sign(p, secret)
	return []byte(wechat.ToXMLCDATA(p))
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	result := f.create(t)
	assert.NotEmpty(t, result.PaymentID)
	assert.Equal(t, "prepay_id=prepay1", result.PaymentParams["package"])
	assert.Equal(t, "MD5", result.PaymentParams["signType"])

	require.Len(t, f.gateway.orders, 1)
	order := f.gateway.orders[0]
	assert.Equal(t, result.OrderID, order.OutTradeNo)
	assert.Equal(t, int64(10), order.TotalFee)
	assert.Equal(t, "o1", order.OpenID)
	assert.Equal(t, defaultDescription, order.Body)

	p, err := f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCreated, p.Status)
	assert.Equal(t, "prepay1", p.PrepayID)

	tr, err := f.store.Transfers.Get(f.ctx, f.transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, tr.PaymentID)
}

func TestCreateRejected(t *testing.T) {
	f := newFixture(t)
	f.gateway.order = &wechat.OrderResult{
		ReturnCode:       wechat.CodeSuccess,
		ResultCode:       wechat.CodeFail,
		ErrorDescription: "商户号mch_id与appid不匹配",
	}

	_, err := f.service.Create(f.ctx, types.Request{
		TransferID: f.transfer.ID,
		Amount:     decimal.RequireFromString("0.1"),
	})
	require.ErrorIs(t, err, ErrOrderRejected)
	assert.Contains(t, err.Error(), "商户号mch_id与appid不匹配")

	tr, err := f.store.Transfers.Get(f.ctx, f.transfer.ID)
	require.NoError(t, err)
	assert.Empty(t, tr.PaymentID)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(f.ctx, types.Request{TransferID: "missing", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrTransferNotFound)

	_, err = f.service.Create(f.ctx, types.Request{TransferID: f.transfer.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, f.gateway.orders)
}

func TestStatusPolling(t *testing.T) {
	f := newFixture(t)
	result := f.create(t)

	// 查询失败时保持原状态
	f.gateway.query = &wechat.QueryResult{OrderResult: wechat.OrderResult{ReturnCode: wechat.CodeFail}}
	p, err := f.service.Status(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCreated, p.Status)

	// 无法识别的 trade_state 保持原状态
	f.gateway.query = &wechat.QueryResult{
		OrderResult: wechat.OrderResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess},
		TradeState:  "USERPAYING",
	}
	p, err = f.service.Status(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCreated, p.Status)

	f.gateway.query = &wechat.QueryResult{
		OrderResult:   wechat.OrderResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess},
		TradeState:    wechat.TradeStateSuccess,
		TransactionID: "T9",
		Status:        types.StatusPaid,
		Mapped:        true,
	}
	p, err = f.service.Status(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPaid, p.Status)
	assert.Equal(t, "T9", p.TransactionID)

	tr, err := f.store.Transfers.Get(f.ctx, f.transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusReceived, tr.Status)

	_, err = f.service.Status(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestHandleNotify(t *testing.T) {
	f := newFixture(t)
	result := f.create(t)

	require.NoError(t, f.service.HandleNotify(f.ctx, notifyBody(result.OrderID, testKey)))

	p, err := f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPaid, p.Status)
	assert.Equal(t, "T1", p.TransactionID)
	require.NotNil(t, p.PaidAt)
	paidAt := *p.PaidAt

	tr, err := f.store.Transfers.Get(f.ctx, f.transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusReceived, tr.Status)

	// 重复通知无副作用
	f.now = f.now.Add(time.Hour)
	require.NoError(t, f.service.HandleNotify(f.ctx, notifyBody(result.OrderID, testKey)))
	p, err = f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.True(t, paidAt.Equal(*p.PaidAt))
}

func TestHandleNotifyRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	result := f.create(t)

	err := f.service.HandleNotify(f.ctx, notifyBody(result.OrderID, "wrong"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	p, err := f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCreated, p.Status)

	assert.ErrorIs(t, f.service.HandleNotify(f.ctx, nil), wechat.ErrEmptyNotification)
}

func TestHandleNotifyUnknownOrder(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.service.HandleNotify(f.ctx, notifyBody("PAY404", testKey)))
}

func TestHandleNotifyInFlight(t *testing.T) {
	locker := NewMemoryLocker()
	f := newFixture(t, WithLocker(locker))
	result := f.create(t)

	unlock, ok, err := locker.TryLock(f.ctx, "notify:"+result.OrderID, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	err = f.service.HandleNotify(f.ctx, notifyBody(result.OrderID, testKey))
	assert.ErrorIs(t, err, ErrNotifyInFlight)

	unlock()
	assert.NoError(t, f.service.HandleNotify(f.ctx, notifyBody(result.OrderID, testKey)))
}

func TestHandleNotifyConcurrent(t *testing.T) {
	f := newFixture(t)
	result := f.create(t)
	body := notifyBody(result.OrderID, testKey)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.service.HandleNotify(f.ctx, body)
			if err != nil && !errors.Is(err, ErrNotifyInFlight) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPaid, p.Status)
}

func TestMockSuccess(t *testing.T) {
	f := newFixture(t)
	result := f.create(t)
	assert.ErrorIs(t, f.service.MockSuccess(f.ctx, result.PaymentID), ErrMockDisabled)

	f = newFixture(t, WithMock(true))
	result = f.create(t)
	require.NoError(t, f.service.MockSuccess(f.ctx, result.PaymentID))

	p, err := f.store.Payments.Get(f.ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPaid, p.Status)
	assert.Contains(t, p.TransactionID, "MOCK_")
}

func TestPayout(t *testing.T) {
	f := newFixture(t)

	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess, PaymentNo: "P1"}
	result, err := f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "P1", result.PaymentNo)

	require.Len(t, f.gateway.payouts, 1)
	assert.EqualValues(t, 10, f.gateway.payouts[0].Amount)
	assert.Equal(t, "o1", f.gateway.payouts[0].OpenID)

	tr, err := f.store.Transfers.Get(f.ctx, f.transfer.ID)
	require.NoError(t, err)
	assert.True(t, tr.IsReceived())
	assert.Equal(t, f.gateway.payouts[0].PartnerTradeNo, tr.PayoutNo)

	_, err = f.service.Payout(f.ctx, "missing", "")
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestPayoutRejectsRepeat(t *testing.T) {
	f := newFixture(t)
	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess, PaymentNo: "P1"}

	_, err := f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
		assert.ErrorIs(t, err, ErrAlreadyReceived)
	}
	assert.Len(t, f.gateway.payouts, 1)
}

func TestPayoutRetryReusesPayoutNo(t *testing.T) {
	f := newFixture(t)

	// 无证书或业务失败后重试，商户单号不变
	_, err := f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	assert.ErrorIs(t, err, wechat.ErrCertificateMissing)

	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeFail, ErrCodeDes: "余额不足"}
	result, err := f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Success())

	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess, PaymentNo: "P1"}
	_, err = f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	require.NoError(t, err)

	require.Len(t, f.gateway.payouts, 3)
	no := f.gateway.payouts[0].PartnerTradeNo
	assert.NotEmpty(t, no)
	for _, req := range f.gateway.payouts {
		assert.Equal(t, no, req.PartnerTradeNo)
	}
}

func TestPayoutInFlight(t *testing.T) {
	locker := NewMemoryLocker()
	f := newFixture(t, WithLocker(locker))
	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess}

	unlock, ok, err := locker.TryLock(f.ctx, "payout:"+f.transfer.ID, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	assert.ErrorIs(t, err, ErrPayoutInFlight)
	assert.Empty(t, f.gateway.payouts)

	unlock()
	_, err = f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Len(t, f.gateway.payouts, 1)
}

func TestPayoutConcurrent(t *testing.T) {
	f := newFixture(t)
	f.gateway.payout = &wechat.PayoutResult{ReturnCode: wechat.CodeSuccess, ResultCode: wechat.CodeSuccess}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.service.Payout(f.ctx, f.transfer.ID, "127.0.0.1")
		}()
	}
	wg.Wait()

	assert.Len(t, f.gateway.payouts, 1)
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	unlock, ok, err := l.TryLock(context.Background(), "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(context.Background(), "k", time.Second)
	assert.False(t, ok)

	_, ok, _ = l.TryLock(context.Background(), "other", time.Second)
	assert.True(t, ok)

	unlock()
	_, ok, _ = l.TryLock(context.Background(), "k", time.Second)
	assert.True(t, ok)
}
