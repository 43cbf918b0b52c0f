// Package config 定义配置提供者接口
package config

import "github.com/weisyn/txlinker/pkg/types"

// AppOptions 应用配置选项接口
type AppOptions interface {
	// GetUserConfig 获取用户配置（文件与环境变量合并后的结果）
	GetUserConfig() *types.UserConfig
}
