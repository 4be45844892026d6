package migrations

import (
	"redpacket/app/models/payment"
	"redpacket/app/models/setting"
	"redpacket/app/models/transfer"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&transfer.Transfer{},
		&payment.Payment{},
		&setting.Setting{},
	}
}
