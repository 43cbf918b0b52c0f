package log

import (
	"fmt"

	logconfig "github.com/weisyn/txlinker/internal/config/log"
	logInterface "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LogConfigProvider 日志模块所需的配置来源
type LogConfigProvider interface {
	GetLog() *logconfig.Config
}

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider LogConfigProvider
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger
	ZapLogger *zap.Logger
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 根据配置初始化日志记录器并设置为全局记录器
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(params.Provider.GetLog())
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("根据用户配置创建日志记录器失败: %w", err)
	}
	SetLogger(logger)

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}

// NewModuleLogger 创建带 module 字段的 logger
func NewModuleLogger(baseLogger logInterface.Logger, module string) logInterface.Logger {
	if baseLogger == nil {
		return logInterface.NopLogger{}
	}
	return baseLogger.With("module", module)
}
