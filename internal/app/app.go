// Package app 装配并运行采集服务
package app

import (
	"context"
	"fmt"
	"time"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

// App 运行中的应用
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号或 ctx 结束，随后停止应用
	Wait(ctx context.Context) error
}

type internalApp struct {
	bootstrap *Bootstrap
}

// Start 装配模块并启动
func Start(appOptions ...Option) (App, error) {
	bootstrap := NewBootstrap(newOptions(appOptions...))
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}
	return &internalApp{bootstrap: bootstrap}, nil
}

// Stop 停止应用，等待存储落盘
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待信号后停止
func (a *internalApp) Wait(ctx context.Context) error {
	sigCh := make(chan struct{})
	go func() {
		WaitForSignal()
		close(sigCh)
	}()

	select {
	case <-sigCh:
	case <-ctx.Done():
	case <-a.bootstrap.fxApp.Done():
	}
	return a.Stop()
}
