package config

import (
	"github.com/weisyn/txlinker/pkg/interfaces/config"
	"github.com/weisyn/txlinker/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(ProvideConfigServices),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) ConfigOutput {
	var userConfig *types.UserConfig
	if params.AppOptions != nil {
		userConfig = params.AppOptions.GetUserConfig()
	}
	return ConfigOutput{Provider: NewProvider(userConfig)}
}
