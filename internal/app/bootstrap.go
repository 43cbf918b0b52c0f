package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/weisyn/txlinker/internal/api"
	apihttp "github.com/weisyn/txlinker/internal/api/http"
	config "github.com/weisyn/txlinker/internal/config"
	log "github.com/weisyn/txlinker/internal/core/infrastructure/log"
	"github.com/weisyn/txlinker/internal/core/infrastructure/storage"
	configiface "github.com/weisyn/txlinker/pkg/interfaces/config"
	"go.uber.org/fx"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 配置、日志、存储
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configiface.AppOptions { return b.opts }),
		config.Module(), // 1. 配置(不依赖其他)

		// 各模块只依赖自己需要的配置切面
		fx.Provide(
			func(p configiface.Provider) log.LogConfigProvider { return p },
			func(p configiface.Provider) storage.AnalyticsConfigProvider { return p },
			func(p configiface.Provider) apihttp.APIConfigProvider { return p },
		),

		log.Module(),     // 2. 日志(依赖配置)
		storage.Module(), // 3. 事件存储(依赖配置和日志)
	}
}

// SetupApplicationLayer 采集服务
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option
	if b.opts.enableAPI {
		modules = append(modules, api.Module())
	}
	for _, fn := range b.opts.extra {
		modules = append(modules, fx.Invoke(fn))
	}
	return modules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupApplicationLayer()...)

	app := fx.New(
		fx.Options(modules...),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("装配模块失败: %w", err)
	}
	b.fxApp = app
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
