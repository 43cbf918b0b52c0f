package api

import (
	"fmt"
	"time"

	"github.com/weisyn/txlinker/pkg/types"
)

// APIOptions 采集服务配置
type APIOptions struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	SummaryTTL   time.Duration `json:"summary_ttl"`
	MaxBodyBytes int64         `json:"max_body_bytes"`
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置
func New(userConfig *types.UserAPIConfig) *Config {
	options := &APIOptions{
		Host:         defaultHost,
		Port:         defaultPort,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		SummaryTTL:   defaultSummaryTTL,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
	if userConfig == nil {
		return &Config{options: options}
	}

	if userConfig.Host != nil && *userConfig.Host != "" {
		options.Host = *userConfig.Host
	}
	if userConfig.Port != nil && *userConfig.Port > 0 && *userConfig.Port < 65536 {
		options.Port = *userConfig.Port
	}
	if userConfig.SummaryTTL != nil {
		// 允许显式设置为 0 以关闭缓存
		if d, err := time.ParseDuration(*userConfig.SummaryTTL); err == nil && d >= 0 {
			options.SummaryTTL = d
		}
	}
	if userConfig.MaxBodyBytes != nil && *userConfig.MaxBodyBytes > 0 {
		options.MaxBodyBytes = *userConfig.MaxBodyBytes
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// Address 监听地址 host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.options.Host, c.options.Port)
}
