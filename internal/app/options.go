package app

import (
	"github.com/weisyn/txlinker/pkg/interfaces/config"
	"github.com/weisyn/txlinker/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项，实现 config.AppOptions
type options struct {
	userConfig *types.UserConfig

	// API支持开关（默认启用）
	enableAPI bool

	// 附加的 fx 选项，测试中用于替换模块
	extra []interface{}
}

var _ config.AppOptions = (*options)(nil)

// WithUserConfig 使用已加载的用户配置
func WithUserConfig(cfg *types.UserConfig) Option {
	return func(o *options) {
		if cfg != nil {
			o.userConfig = cfg
		}
	}
}

// WithoutAPI 禁用采集服务，只装配基础设施
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// WithInvoke 追加在启动时执行的函数，参数由容器注入
func WithInvoke(fns ...interface{}) Option {
	return func(o *options) {
		o.extra = append(o.extra, fns...)
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		userConfig: &types.UserConfig{},
		enableAPI:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetUserConfig 实现 config.AppOptions
func (o *options) GetUserConfig() *types.UserConfig {
	return o.userConfig
}
