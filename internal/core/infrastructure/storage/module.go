// Package storage 提供分析事件存储模块
package storage

import (
	"context"

	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// AnalyticsConfigProvider 提供分析事件配置
type AnalyticsConfigProvider interface {
	GetAnalytics() *analyticsconfig.Config
}

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  AnalyticsConfigProvider
	Logger    log.Logger
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	EventStore storageInterface.EventStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件存储并在应用停止时关闭
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := params.Logger.With("module", "storage")
	store, err := NewEventStore(context.Background(), params.Provider.GetAnalytics(), logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("正在关闭事件存储...")
			if err := store.Close(); err != nil {
				logger.Errorf("关闭事件存储失败: %v", err)
				return err
			}
			return nil
		},
	})

	return ModuleOutput{EventStore: store}, nil
}
