package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole CLI 场景下默认输出到控制台（stderr）
	defaultToConsole = true

	// defaultFilePath 为空表示不写文件
	defaultFilePath = ""

	// 日志轮转
	defaultMaxSize    = 50 // MB
	defaultMaxBackups = 5
	defaultMaxAge     = 14 // days
	defaultCompress   = true

	defaultEnableCaller     = false
	defaultEnableStacktrace = false
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}
