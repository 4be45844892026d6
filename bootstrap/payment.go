package bootstrap

import (
	"redpacket/app/repositories"
	"redpacket/pkg/app"
	"redpacket/pkg/config"
	"redpacket/pkg/payment"
	"redpacket/pkg/payment/utils"
	"redpacket/pkg/redis"
)

// SetupPayment 初始化支付服务
func SetupPayment(store *repositories.Store) *payment.Service {
	utils.SetNodeID(config.GetInt64("app.node_id"))

	opts := []payment.Option{
		payment.WithMock(!app.IsProduction()),
	}
	// 多实例部署时回调锁放在 Redis
	if redis.Redis != nil {
		opts = append(opts, payment.WithLocker(payment.NewRedisLocker(redis.Redis)))
	}

	return payment.NewService(SetupPaymentGateway(), store, opts...)
}
