package bootstrap

import (
	"fmt"
	"os"

	"redpacket/app/repositories"
	"redpacket/pkg/config"
	"redpacket/pkg/logger"
)

// SetupStorage 按 storage.driver 选择 JSON 文件或数据库存储
func SetupStorage() (*repositories.Store, error) {
	driver := config.GetString("storage.driver")
	switch driver {
	case repositories.DriverDatabase:
		db, err := SetupDB()
		if err != nil {
			return nil, err
		}
		return repositories.NewDatabaseStore(db), nil
	case repositories.DriverFile, "":
		dir := config.GetString("storage.data_dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
		logger.InfoString("存储", "Setup", "使用 JSON 文件存储: "+dir)
		return repositories.NewFileStore(dir), nil
	default:
		return nil, fmt.Errorf("暂不支持该存储类型: %s", driver)
	}
}
