// Package http 实现分析事件采集服务
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/txlinker/internal/api/http/handlers"
	"github.com/weisyn/txlinker/internal/api/http/middleware"
	"github.com/weisyn/txlinker/internal/app/version"
	apiconfig "github.com/weisyn/txlinker/internal/config/api"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

// Server 采集服务
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.APIOptions
	logger     log.Logger

	analytics *handlers.AnalyticsHandler
	health    *handlers.HealthHandler
	metrics   *middleware.Metrics
	registry  *prometheus.Registry

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// NewServer 创建采集服务并注册路由，调用 Start 后开始监听
func NewServer(cfg *apiconfig.Config, store storage.EventStore, logger log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NopLogger{}
	}
	options := cfg.GetOptions()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	analyticsHandler, err := handlers.NewAnalyticsHandler(store, metrics, logger, options.SummaryTTL, options.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("创建汇总缓存失败: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:    gin.New(),
		options:   options,
		logger:    logger,
		analytics: analyticsHandler,
		health:    handlers.NewHealthHandler(store, version.GetVersion()),
		metrics:   metrics,
		registry:  registry,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.AccessLog(s.logger),
		s.metrics.Middleware(),
	)

	s.router.GET("/health", s.health.Health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.router.Group("/api/analytics")
	{
		api.POST("/event", s.analytics.RecordEvent)
		api.POST("/pageload", s.analytics.RecordPageLoad)
		api.GET("/summary", s.analytics.Summary)
	}
}

// Handler 返回路由，供测试直接驱动
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听配置地址并在后台提供服务
// 监听失败（如端口占用）直接返回错误
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("collector already started")
	}

	addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	s.serveErr = make(chan error, 1)

	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("采集服务运行失败: %v", err)
			s.serveErr <- err
		}
		close(s.serveErr)
	}()

	s.logger.Infof("采集服务已启动，监听地址: %s", ln.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Done 服务退出时关闭，非正常退出时先发送错误
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Stop 优雅关闭，等待进行中的请求完成
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	defer func() {
		if err := s.analytics.Close(); err != nil {
			s.logger.Warnf("关闭汇总缓存失败: %v", err)
		}
	}()
	if srv == nil {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("采集服务关闭出错: %v", err)
		return err
	}
	s.logger.Info("采集服务已关闭")
	return nil
}
