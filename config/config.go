// Package config 存放程序配置信息
package config

// Initialize 触发加载 config 包下各文件的 init 方法
func Initialize() {
	// 空函数
}
