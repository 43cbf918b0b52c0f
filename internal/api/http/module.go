package http

import (
	"context"

	apiconfig "github.com/weisyn/txlinker/internal/config/api"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// APIConfigProvider 采集服务所需的配置来源
type APIConfigProvider interface {
	GetAPI() *apiconfig.Config
}

// ServerParams 定义采集服务的依赖参数
type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  APIConfigProvider
	Store     storage.EventStore
	Logger    log.Logger
}

// Module 返回采集服务模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		// 强制实例化，使生命周期钩子生效
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建采集服务并注册到生命周期
func ProvideServer(params ServerParams) (*Server, error) {
	logger := params.Logger.With("module", "collector")
	server, err := NewServer(params.Provider.GetAPI(), params.Store, logger)
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server, nil
}
