package config

import "redpacket/pkg/config"

func init() {
	config.Add("storage", func() map[string]interface{} {
		return map[string]interface{}{
			// 记录存储后端，可选：
			// "file" JSON 文件，存放在 data_dir 下
			// "database" 关系型数据库，连接见 config/database.go
			"driver": config.Env("STORAGE_DRIVER", "file"),

			// JSON 文件目录
			"data_dir": config.Env("DATA_DIR", "data"),
		}
	})
}
