// Package payment 支付服务：下单、状态轮询、回调处理与企业付款
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	paymentModel "redpacket/app/models/payment"
	"redpacket/app/models/transfer"
	"redpacket/app/repositories"
	"redpacket/pkg/logger"
	"redpacket/pkg/payment/types"
	"redpacket/pkg/payment/utils"
	"redpacket/pkg/payment/wechat"
)

var (
	ErrTransferNotFound = errors.New("转账信息不存在")
	ErrPaymentNotFound  = errors.New("支付记录不存在")
	ErrInvalidAmount    = errors.New("支付金额必须大于 0")
	ErrOrderRejected    = errors.New("支付订单创建失败")
	ErrInvalidSignature = errors.New("签名验证失败")
	ErrNotifyInFlight   = errors.New("订单通知正在处理")
	ErrMockDisabled     = errors.New("当前环境不允许模拟支付")
	ErrNoReceiver       = errors.New("转账缺少收款人 openid")
	ErrAlreadyReceived  = errors.New("转账已领取，不能重复付款")
	ErrPayoutInFlight   = errors.New("该转账正在付款中")
)

const (
	defaultDescription = "红包转账"
	notifyLockTTL      = 30 * time.Second
	payoutLockTTL      = time.Minute
)

// Gateway 支付服务依赖的微信支付能力
type Gateway interface {
	CreateOrder(ctx context.Context, order *wechat.Order) (*wechat.OrderResult, error)
	QueryOrder(ctx context.Context, outTradeNo string) *wechat.QueryResult
	ParseNotification(body []byte) (wechat.Params, error)
	VerifyNotification(payload wechat.Params) bool
	BuildClientPaymentParams(prepayID string) wechat.ClientPaymentParams
	TransferToBalance(ctx context.Context, req wechat.PayoutRequest) (*wechat.PayoutResult, error)
}

// Service 支付服务
type Service struct {
	gateway   Gateway
	store     *repositories.Store
	locker    Locker
	allowMock bool
	now       func() time.Time
}

// Option 服务选项
type Option func(*Service)

// WithLocker 指定通知锁，默认进程内锁
func WithLocker(l Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithMock 是否允许模拟支付成功
func WithMock(allow bool) Option {
	return func(s *Service) {
		s.allowMock = allow
	}
}

// WithClock 指定时间源
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService 创建支付服务
func NewService(gateway Gateway, store *repositories.Store, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		store:   store,
		locker:  NewMemoryLocker(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 为转账创建支付：落库 pending，统一下单，成功后返回前端调起支付参数
func (s *Service) Create(ctx context.Context, req types.Request) (*types.Result, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tr, err := s.store.Transfers.Get(ctx, req.TransferID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = defaultDescription
	}
	openID := req.OpenID
	if openID == "" {
		openID = tr.ReceiverOpenID
	}

	p := paymentModel.New(tr.ID, req.Amount, description)
	if err := s.store.Payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	result, err := s.gateway.CreateOrder(ctx, &wechat.Order{
		OutTradeNo: p.OrderID,
		TotalFee:   utils.YuanToFen(req.Amount),
		Body:       description,
		TradeType:  wechat.TradeTypeJSAPI,
		OpenID:     openID,
		ClientIP:   req.ClientIP,
	})
	if err != nil {
		s.fail(ctx, p, err.Error())
		return nil, err
	}
	if !result.Success() {
		s.fail(ctx, p, result.ErrorDescription)
		return nil, fmt.Errorf("%w: %s", ErrOrderRejected, result.ErrorDescription)
	}

	p.MarkCreated(result.PrepayID)
	if err := s.store.Payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update payment record: %w", err)
	}

	tr.PaymentID = p.ID
	if err := s.store.Transfers.Update(ctx, tr); err != nil {
		logger.WarnString("Payment", "Create", "关联转账失败: "+err.Error())
	}

	logger.Info("Payment", zap.String("action", "create"), zap.String("payment_id", p.ID), zap.String("order_id", p.OrderID))

	return &types.Result{
		PaymentID:     p.ID,
		OrderID:       p.OrderID,
		PaymentParams: s.gateway.BuildClientPaymentParams(result.PrepayID).Map(),
	}, nil
}

// Status 查询支付状态，未进入终态时向微信查询并更新。查询失败时返回原记录。
func (s *Service) Status(ctx context.Context, paymentID string) (*paymentModel.Payment, error) {
	p, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.Status.IsPollable() {
		return p, nil
	}

	q := s.gateway.QueryOrder(ctx, p.OrderID)
	if !q.Success() || !q.Mapped {
		return p, nil
	}

	if p.Transition(q.Status, q.TransactionID, s.now()) {
		if err := s.store.Payments.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("update payment record: %w", err)
		}
		if p.IsSuccess() {
			s.markReceived(ctx, p.TransferID)
		}
	}
	return p, nil
}

// HandleNotify 处理微信支付结果通知。返回 nil 表示应回复 SUCCESS。
func (s *Service) HandleNotify(ctx context.Context, body []byte) error {
	payload, err := s.gateway.ParseNotification(body)
	if err != nil {
		return err
	}
	if !s.gateway.VerifyNotification(payload) {
		logger.WarnString("Payment", "Notify", "签名验证失败 out_trade_no="+payload.Get("out_trade_no"))
		return ErrInvalidSignature
	}

	orderID := payload.Get("out_trade_no")
	if payload.Get("return_code") != wechat.CodeSuccess || payload.Get("result_code") != wechat.CodeSuccess {
		logger.InfoString("Payment", "Notify", "支付未成功 out_trade_no="+orderID)
		return nil
	}

	unlock, ok, err := s.locker.TryLock(ctx, "notify:"+orderID, notifyLockTTL)
	if err != nil {
		return fmt.Errorf("acquire notify lock: %w", err)
	}
	if !ok {
		return ErrNotifyInFlight
	}
	defer unlock()

	p, err := s.store.Payments.GetByOrderID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		// 未知订单也应答成功，避免微信重复推送
		logger.WarnString("Payment", "Notify", "未知订单 out_trade_no="+orderID)
		return nil
	}
	if err != nil {
		return err
	}

	if !p.Transition(types.StatusPaid, payload.Get("transaction_id"), s.now()) {
		return nil
	}
	if err := s.store.Payments.Update(ctx, p); err != nil {
		return fmt.Errorf("update payment record: %w", err)
	}
	s.markReceived(ctx, p.TransferID)

	logger.Info("Payment", zap.String("action", "notify"), zap.String("payment_id", p.ID), zap.String("transaction_id", p.TransactionID))
	return nil
}

// MockSuccess 本地调试：直接把支付置为成功
func (s *Service) MockSuccess(ctx context.Context, paymentID string) error {
	if !s.allowMock {
		return ErrMockDisabled
	}

	p, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	transactionID := fmt.Sprintf("MOCK_%d", s.now().UnixMilli())
	if p.Transition(types.StatusPaid, transactionID, s.now()) {
		if err := s.store.Payments.Update(ctx, p); err != nil {
			return err
		}
	}
	if p.IsSuccess() {
		s.markReceived(ctx, p.TransferID)
	}
	return nil
}

// Payout 企业付款：把转账的实际金额付到收款人零钱。
// 已领取的转账不再付款；商户单号首次付款前落库，失败重试沿用同一单号，由微信按单号去重。
func (s *Service) Payout(ctx context.Context, transferID, clientIP string) (*wechat.PayoutResult, error) {
	unlock, ok, err := s.locker.TryLock(ctx, "payout:"+transferID, payoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire payout lock: %w", err)
	}
	if !ok {
		return nil, ErrPayoutInFlight
	}
	defer unlock()

	tr, err := s.store.Transfers.Get(ctx, transferID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}
	if tr.IsReceived() {
		return nil, ErrAlreadyReceived
	}
	if tr.ReceiverOpenID == "" {
		return nil, ErrNoReceiver
	}
	if !tr.ActualAmount.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	if tr.PayoutNo == "" {
		tr.PayoutNo = utils.GeneratePayoutNo()
		if err := s.store.Transfers.Update(ctx, tr); err != nil {
			return nil, fmt.Errorf("save payout no: %w", err)
		}
	}

	result, err := s.gateway.TransferToBalance(ctx, wechat.PayoutRequest{
		PartnerTradeNo: tr.PayoutNo,
		OpenID:         tr.ReceiverOpenID,
		Amount:         utils.YuanToFen(tr.ActualAmount),
		Desc:           tr.Message,
		ClientIP:       clientIP,
	})
	if err != nil {
		return nil, err
	}
	if result.Success() {
		s.markReceived(ctx, tr.ID)
	}
	logger.Info("Payment", zap.String("action", "payout"), zap.String("transfer_id", tr.ID),
		zap.String("payout_no", tr.PayoutNo), zap.Bool("success", result.Success()))
	return result, nil
}

func (s *Service) getPayment(ctx context.Context, id string) (*paymentModel.Payment, error) {
	p, err := s.store.Payments.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

func (s *Service) fail(ctx context.Context, p *paymentModel.Payment, reason string) {
	p.MarkFailed(reason)
	if err := s.store.Payments.Update(ctx, p); err != nil {
		logger.ErrorString("Payment", "Create", "保存失败状态出错: "+err.Error())
	}
}

// markReceived 把转账标记为已领取，失败只记日志
func (s *Service) markReceived(ctx context.Context, transferID string) {
	tr, err := s.store.Transfers.Get(ctx, transferID)
	if err != nil {
		logger.WarnString("Payment", "Transfer", fmt.Sprintf("转账 %s 读取失败: %v", transferID, err))
		return
	}
	if tr.IsReceived() {
		return
	}

	status := transfer.StatusReceived
	tr.Apply(transfer.Patch{Status: &status}, s.now())
	if err := s.store.Transfers.Update(ctx, tr); err != nil {
		logger.WarnString("Payment", "Transfer", fmt.Sprintf("转账 %s 更新失败: %v", transferID, err))
	}
}
