package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"redpacket/app/requests"
	"redpacket/pkg/logger"
	"redpacket/pkg/payment"
	"redpacket/pkg/payment/types"
	"redpacket/pkg/payment/wechat"
	"redpacket/pkg/response"
)

// maxNotifyBody 支付通知报文上限，正常通知不到 2KB
const maxNotifyBody = 64 << 10

type PaymentController struct {
	paymentService *payment.Service
}

// NewPaymentController 创建支付控制器
func NewPaymentController(service *payment.Service) *PaymentController {
	return &PaymentController{
		paymentService: service,
	}
}

// CreatePayment 创建支付
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	req, err := requests.ValidatePayment(c)
	if err != nil {
		var verr requests.ValidationError
		if errors.As(err, &verr) {
			response.ValidationError(c, verr.Errors)
			return
		}
		response.BadRequest(c, err, "请求参数错误")
		return
	}

	result, err := pc.paymentService.Create(c.Request.Context(), types.Request{
		TransferID:  req.TransferID,
		Amount:      req.Decimal(),
		Description: req.Description,
		OpenID:      req.OpenID,
		ClientIP:    c.ClientIP(),
	})
	switch {
	case errors.Is(err, payment.ErrTransferNotFound):
		response.Abort404(c, "转账信息不存在")
		return
	case errors.Is(err, payment.ErrInvalidAmount):
		response.Abort400(c, err.Error())
		return
	case errors.Is(err, payment.ErrOrderRejected):
		response.Fail(c, err.Error())
		return
	case err != nil:
		response.Abort500(c, "创建支付订单失败")
		return
	}

	response.Data(c, result)
}

// GetStatus 查询支付状态
func (pc *PaymentController) GetStatus(c *gin.Context) {
	p, err := pc.paymentService.Status(c.Request.Context(), c.Param("paymentId"))
	if errors.Is(err, payment.ErrPaymentNotFound) {
		response.Abort404(c, "支付记录不存在")
		return
	}
	if err != nil {
		response.Abort500(c, "查询支付状态失败")
		return
	}
	response.Data(c, p)
}

// Notify 微信支付结果通知，始终以 XML 回复
func (pc *PaymentController) Notify(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNotifyBody))
	if err != nil {
		response.XML(c, wechat.NotifyReply(false, "读取请求失败"))
		return
	}

	err = pc.paymentService.HandleNotify(c.Request.Context(), body)
	switch {
	case err == nil:
		response.XML(c, wechat.NotifyReply(true, "OK"))
	case errors.Is(err, payment.ErrInvalidSignature):
		response.XML(c, wechat.NotifyReply(false, "签名验证失败"))
	default:
		logger.ErrorString("Payment", "Notify", err.Error())
		response.XML(c, wechat.NotifyReply(false, "处理回调失败"))
	}
}

// MockSuccess 开发环境模拟支付成功
func (pc *PaymentController) MockSuccess(c *gin.Context) {
	var req requests.MockPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "缺少 paymentId")
		return
	}

	err := pc.paymentService.MockSuccess(c.Request.Context(), req.PaymentID)
	switch {
	case errors.Is(err, payment.ErrMockDisabled):
		response.Abort403(c, err.Error())
		return
	case errors.Is(err, payment.ErrPaymentNotFound):
		response.Abort404(c, "支付记录不存在")
		return
	case err != nil:
		response.Abort500(c, "模拟支付失败")
		return
	}
	response.Message(c, "模拟支付成功")
}
