package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 请求指标收集
type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsAccepted  *prometheus.CounterVec
}

// NewMetrics 在给定注册表上注册指标
// 每个服务实例使用独立注册表，测试中可重复创建
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "txlink",
				Subsystem: "collector",
				Name:      "requests_total",
				Help:      "Total number of collector requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "txlink",
				Subsystem: "collector",
				Name:      "request_duration_seconds",
				Help:      "Collector request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		eventsAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "txlink",
				Subsystem: "collector",
				Name:      "events_accepted_total",
				Help:      "Analytics events persisted, by event name",
			},
			[]string{"event"},
		),
	}
}

// Middleware 返回Gin中间件
// 使用路由模板而非原始路径作为标签，避免标签基数失控
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// EventAccepted 记录一条已持久化的事件
func (m *Metrics) EventAccepted(name string) {
	m.eventsAccepted.WithLabelValues(name).Inc()
}
