package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	infralog "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
)

// AccessLog 记录每个请求的结构化访问日志
// 5xx 记为 error，4xx 记为 warn
func AccessLog(logger infralog.Logger) gin.HandlerFunc {
	zl := logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			zl.Error("HTTP request", fields...)
		case status >= 400:
			zl.Warn("HTTP request", fields...)
		default:
			zl.Debug("HTTP request", fields...)
		}
	}
}
