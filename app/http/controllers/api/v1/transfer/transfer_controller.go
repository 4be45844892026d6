package transfer

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	transferModel "redpacket/app/models/transfer"
	"redpacket/app/repositories"
	"redpacket/app/requests"
	"redpacket/pkg/app"
	"redpacket/pkg/payment"
	"redpacket/pkg/payment/wechat"
	"redpacket/pkg/response"
)

// TransferController 转账记录
type TransferController struct {
	transfers repositories.TransferRepository
	payments  *payment.Service
}

// NewTransferController 创建控制器
func NewTransferController(transfers repositories.TransferRepository, payments *payment.Service) *TransferController {
	return &TransferController{
		transfers: transfers,
		payments:  payments,
	}
}

// Index 分页列表，按创建时间倒序
func (tc *TransferController) Index(c *gin.Context) {
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	size := cast.ToInt(c.DefaultQuery("size", "10"))

	list, total, err := tc.transfers.List(c.Request.Context(), page, size)
	if err != nil {
		response.Abort500(c, "获取转账记录失败")
		return
	}

	response.Data(c, gin.H{
		"list":  list,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// Show 单条记录
func (tc *TransferController) Show(c *gin.Context) {
	t, ok := tc.find(c)
	if !ok {
		return
	}
	response.Data(c, t)
}

// Store 创建转账
func (tc *TransferController) Store(c *gin.Context) {
	req, err := requests.ValidateTransfer(c)
	if err != nil {
		abortValidation(c, err)
		return
	}

	t := transferModel.New(req.DisplayName, req.Decimal(), req.SenderName)
	t.Message = req.Message
	t.ReceiverOpenID = req.OpenID
	if req.SenderAvatar != "" {
		t.SenderAvatar = req.SenderAvatar
	}
	if req.Theme != "" {
		t.Theme = req.Theme
	}
	if req.AccountStatus != "" {
		t.AccountStatus = transferModel.AccountStatus(req.AccountStatus)
	}

	if err := tc.transfers.Create(c.Request.Context(), t); err != nil {
		response.Abort500(c, "创建转账记录失败")
		return
	}
	response.Created(c, t)
}

// Update 部分更新
func (tc *TransferController) Update(c *gin.Context) {
	var req requests.TransferUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err, "请求参数错误")
		return
	}

	t, ok := tc.find(c)
	if !ok {
		return
	}

	patch := transferModel.Patch{
		DisplayName:    req.DisplayName,
		Message:        req.Message,
		Theme:          req.Theme,
		ReceiverOpenID: req.ReceiverOpenID,
		PaymentID:      req.PaymentID,
	}
	if req.ActualAmount != nil {
		amount := decimal.NewFromFloat(*req.ActualAmount).Round(2)
		patch.ActualAmount = &amount
	}
	if req.Status != nil {
		status := transferModel.Status(*req.Status)
		patch.Status = &status
	}
	if req.AccountStatus != nil {
		accountStatus := transferModel.AccountStatus(*req.AccountStatus)
		patch.AccountStatus = &accountStatus
	}
	t.Apply(patch, app.TimenowInTimezone())

	if err := tc.transfers.Update(c.Request.Context(), t); err != nil {
		response.Abort500(c, "更新转账记录失败")
		return
	}
	response.Data(c, t)
}

// Delete 删除
func (tc *TransferController) Delete(c *gin.Context) {
	err := tc.transfers.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Abort404(c, "转账记录不存在")
		return
	}
	if err != nil {
		response.Abort500(c, "删除转账记录失败")
		return
	}
	response.Message(c, "转账记录删除成功")
}

// Payout 企业付款到收款人零钱
func (tc *TransferController) Payout(c *gin.Context) {
	result, err := tc.payments.Payout(c.Request.Context(), c.Param("id"), c.ClientIP())
	switch {
	case errors.Is(err, payment.ErrTransferNotFound):
		response.Abort404(c, "转账记录不存在")
		return
	case errors.Is(err, payment.ErrAlreadyReceived), errors.Is(err, payment.ErrPayoutInFlight):
		response.Abort409(c, err.Error())
		return
	case errors.Is(err, payment.ErrNoReceiver), errors.Is(err, payment.ErrInvalidAmount):
		response.Abort400(c, err.Error())
		return
	case errors.Is(err, wechat.ErrCertificateMissing):
		response.Abort500(c, "未配置商户证书，无法付款")
		return
	case err != nil:
		response.Abort500(c, "企业付款失败")
		return
	}

	if !result.Success() {
		response.Fail(c, result.Description())
		return
	}
	response.Data(c, result)
}

func (tc *TransferController) find(c *gin.Context) (*transferModel.Transfer, bool) {
	t, err := tc.transfers.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Abort404(c, "转账记录不存在")
		return nil, false
	}
	if err != nil {
		response.Abort500(c, "获取转账记录失败")
		return nil, false
	}
	return t, true
}

func abortValidation(c *gin.Context, err error) {
	var verr requests.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Errors)
		return
	}
	response.BadRequest(c, err, "请求参数错误")
}
