package config

import (
	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	apiconfig "github.com/weisyn/txlinker/internal/config/api"
	logconfig "github.com/weisyn/txlinker/internal/config/log"
	walletconfig "github.com/weisyn/txlinker/internal/config/wallet"
	"github.com/weisyn/txlinker/pkg/chains"
)

// Provider 配置提供者接口
//
// 每个 Get 方法返回套用默认值后的完整配置，调用方无需再判空。
type Provider interface {
	// GetAppName 应用名称
	GetAppName() string

	// GetDataDir 数据根目录，各模块的默认路径基于此目录
	GetDataDir() string

	// GetLog 日志配置
	GetLog() *logconfig.Config

	// GetAnalytics 分析事件配置
	GetAnalytics() *analyticsconfig.Config

	// GetWallet 钱包会话配置
	GetWallet() *walletconfig.Config

	// GetAPI 采集服务配置
	GetAPI() *apiconfig.Config

	// GetChains 内置链表与用户追加链合并后的注册表
	GetChains() *chains.Registry
}
