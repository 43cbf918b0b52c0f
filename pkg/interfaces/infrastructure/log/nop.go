package log

import "go.uber.org/zap"

// NopLogger 丢弃所有输出，供测试和未配置日志的调用方使用
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string)                  {}
func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Info(string)                   {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warn(string)                   {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Error(string)                  {}
func (NopLogger) Errorf(string, ...interface{}) {}
func (n NopLogger) With(...interface{}) Logger  { return n }
func (NopLogger) Sync() error                   { return nil }
func (NopLogger) GetZapLogger() *zap.Logger     { return zap.NewNop() }
