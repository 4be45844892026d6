package bootstrap

import (
	"redpacket/pkg/config"
	"redpacket/pkg/logger"
)

// SetupLogger 按 config/log.go 初始化日志，之后各模块通过 pkg/logger 输出
func SetupLogger() {
	logger.InitLogger(
		config.GetString("log.filename"),
		config.GetInt("log.max_size"),
		config.GetInt("log.max_backup"),
		config.GetInt("log.max_age"),
		config.GetBool("log.compress"),
		config.GetString("log.type"),
		config.GetString("log.level"),
	)
	logger.InfoString("Logger", "Setup", "日志初始化完成 level="+config.GetString("log.level")+" type="+config.GetString("log.type"))
}
