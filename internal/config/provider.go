// Package config 提供应用配置管理功能
package config

import (
	"os"
	"path/filepath"

	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	apiconfig "github.com/weisyn/txlinker/internal/config/api"
	logconfig "github.com/weisyn/txlinker/internal/config/log"
	walletconfig "github.com/weisyn/txlinker/internal/config/wallet"
	"github.com/weisyn/txlinker/pkg/chains"
	"github.com/weisyn/txlinker/pkg/interfaces/config"
	"github.com/weisyn/txlinker/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	userConfig *types.UserConfig
}

var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者，userConfig 为 nil 时全部使用默认值
func NewProvider(userConfig *types.UserConfig) *Provider {
	if userConfig == nil {
		userConfig = &types.UserConfig{}
	}
	return &Provider{userConfig: userConfig}
}

// GetAppName 获取应用名称
func (p *Provider) GetAppName() string {
	if p.userConfig.AppName != nil && *p.userConfig.AppName != "" {
		return *p.userConfig.AppName
	}
	return defaultAppName
}

// GetDataDir 获取数据根目录
// 未配置时使用 ~/.txlinker，取不到主目录时使用当前目录下的 .txlinker
func (p *Provider) GetDataDir() string {
	if p.userConfig.DataDir != nil && *p.userConfig.DataDir != "" {
		return *p.userConfig.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.Config {
	return logconfig.New(p.userConfig.Log)
}

// GetAnalytics 获取分析事件配置，默认存储目录基于数据根目录
func (p *Provider) GetAnalytics() *analyticsconfig.Config {
	return analyticsconfig.New(p.userConfig.Analytics, p.GetDataDir())
}

// GetWallet 获取钱包配置
func (p *Provider) GetWallet() *walletconfig.Config {
	return walletconfig.New(p.userConfig.Wallet)
}

// GetAPI 获取采集服务配置
func (p *Provider) GetAPI() *apiconfig.Config {
	return apiconfig.New(p.userConfig.API)
}

// GetChains 获取链注册表
func (p *Provider) GetChains() *chains.Registry {
	extra := make([]chains.Chain, 0, len(p.userConfig.Chains))
	for _, c := range p.userConfig.Chains {
		extra = append(extra, chains.Chain{
			ID:           c.ID,
			Name:         c.Name,
			RPCURL:       c.RPCURL,
			NativeSymbol: c.Symbol,
		})
	}
	return chains.NewRegistry(extra...)
}

// GetUserConfig 返回原始用户配置
func (p *Provider) GetUserConfig() *types.UserConfig {
	return p.userConfig
}
