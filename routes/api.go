package routes

import (
	"github.com/gin-gonic/gin"

	"redpacket/app/http/controllers/api/v1/health"
	"redpacket/app/http/controllers/api/v1/payment"
	"redpacket/app/http/controllers/api/v1/setting"
	"redpacket/app/http/controllers/api/v1/statistic"
	"redpacket/app/http/controllers/api/v1/transfer"
	wechatController "redpacket/app/http/controllers/api/v1/wechat"
	"redpacket/app/http/middlewares"
	"redpacket/app/repositories"
	paymentService "redpacket/pkg/payment"
	"redpacket/pkg/wechat"
)

// 路由限流配置
const (
	// 💰 创建支付、企业付款：每小时每IP 100 请求
	PaymentLimit = "100-H"
	// 📩 微信回调：每分钟每IP 600 请求
	NotifyLimit = "600-M"
	// 🔍 状态轮询：每分钟每IP 300 请求
	QueryLimit = "300-M"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	Store     *repositories.Store
	Payments  *paymentService.Service
	Wechat    *wechat.Client
	RateLimit string // 全局限流，如 30000-H
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps Dependencies) {
	api := r.Group("/api")

	api.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(deps.RateLimit),
		middlewares.Cors(),
	)

	api.GET("/health", health.NewHealthController(deps.Store.Driver).Show)

	// 💌 转账记录
	transferRoutes := api.Group("/transfers")
	{
		tc := transfer.NewTransferController(deps.Store.Transfers, deps.Payments)
		transferRoutes.GET("", tc.Index)
		transferRoutes.POST("", tc.Store)
		transferRoutes.GET("/:id", tc.Show)
		transferRoutes.PATCH("/:id", tc.Update)
		transferRoutes.DELETE("/:id", tc.Delete)
		// 企业付款到收款人零钱
		transferRoutes.POST("/:id/payout",
			middlewares.LimitIP(PaymentLimit),
			tc.Payout,
		)
	}

	// ⚙️ 默认设置
	settingRoutes := api.Group("/settings")
	{
		sc := setting.NewSettingController(deps.Store.Settings)
		settingRoutes.GET("", sc.Show)
		settingRoutes.POST("", sc.Update)
		settingRoutes.POST("/reset", sc.Reset)
	}

	// 📊 统计
	statisticRoutes := api.Group("/statistics")
	{
		stc := statistic.NewStatisticController(deps.Store.Transfers)
		statisticRoutes.GET("", stc.Summary)
		statisticRoutes.GET("/daily", stc.Daily)
	}

	// 💳 微信支付
	paymentRoutes := api.Group("/payment")
	{
		pc := payment.NewPaymentController(deps.Payments)

		// POST /api/payment/create
		// 请求频率：每小时每IP最多100次
		paymentRoutes.POST("/create",
			middlewares.LimitIP(PaymentLimit),
			pc.CreatePayment,
		)

		// GET /api/payment/status/:paymentId
		// 请求频率：每分钟每IP最多300次
		paymentRoutes.GET("/status/:paymentId",
			middlewares.LimitIP(QueryLimit),
			pc.GetStatus,
		)

		// 支付结果通知，两个地址等价
		paymentRoutes.POST("/notify", middlewares.LimitIP(NotifyLimit), pc.Notify)
		paymentRoutes.POST("/callback", middlewares.LimitIP(NotifyLimit), pc.Notify)

		paymentRoutes.POST("/mock-success", middlewares.LimitPerRoute(QueryLimit), pc.MockSuccess)
	}

	// 🟢 公众号
	wechatRoutes := api.Group("/wechat")
	{
		wc := wechatController.NewWechatController(deps.Wechat)
		wechatRoutes.GET("/config", wc.Config)
		wechatRoutes.GET("/verify", wc.Verify)
		wechatRoutes.GET("/oauth/url", wc.AuthURL)
		wechatRoutes.GET("/oauth/callback", wc.OAuthCallback)
		wechatRoutes.GET("/diag", wc.Diag)
	}
}
