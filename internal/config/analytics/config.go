package analytics

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/weisyn/txlinker/pkg/types"
)

// AnalyticsOptions 分析事件配置选项
type AnalyticsOptions struct {
	Backend      string        `json:"backend"`
	StorePath    string        `json:"store_path"`
	RedisAddr    string        `json:"redis_addr"`
	RedisKey     string        `json:"redis_key"`
	CollectorURL string        `json:"collector_url"`
	QueueSize    int           `json:"queue_size"`
	Timeout      time.Duration `json:"timeout"`
}

// Config 分析事件配置实现
type Config struct {
	options *AnalyticsOptions
}

// New 创建分析事件配置，dataDir 用于推导默认的 badger 目录
func New(userConfig *types.UserAnalyticsConfig, dataDir string) *Config {
	options := &AnalyticsOptions{
		Backend:   defaultBackend,
		StorePath: filepath.Join(dataDir, defaultStoreDir),
		RedisAddr: defaultRedisAddr,
		RedisKey:  defaultRedisKey,
		QueueSize: defaultQueueSize,
		Timeout:   defaultTimeout,
	}
	if userConfig != nil {
		applyUserAnalyticsConfig(options, userConfig)
	}
	return &Config{options: options}
}

func applyUserAnalyticsConfig(options *AnalyticsOptions, user *types.UserAnalyticsConfig) {
	if user.Backend != nil && *user.Backend != "" {
		options.Backend = strings.ToLower(*user.Backend)
	}
	if user.StorePath != nil && *user.StorePath != "" {
		options.StorePath = *user.StorePath
	}
	if user.RedisAddr != nil && *user.RedisAddr != "" {
		options.RedisAddr = *user.RedisAddr
	}
	if user.RedisKey != nil && *user.RedisKey != "" {
		options.RedisKey = *user.RedisKey
	}
	if user.CollectorURL != nil {
		options.CollectorURL = strings.TrimRight(*user.CollectorURL, "/")
	}
	if user.QueueSize != nil && *user.QueueSize > 0 {
		options.QueueSize = *user.QueueSize
	}
	if user.Timeout != nil {
		if d, err := time.ParseDuration(*user.Timeout); err == nil && d > 0 {
			options.Timeout = d
		}
	}
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *AnalyticsOptions {
	return c.options
}

// GetBackend 存储后端名称
func (c *Config) GetBackend() string {
	return c.options.Backend
}

// GetStorePath badger 数据目录
func (c *Config) GetStorePath() string {
	return c.options.StorePath
}

// GetQueueSize 投递队列长度
func (c *Config) GetQueueSize() int {
	return c.options.QueueSize
}

// GetTimeout 单次投递超时
func (c *Config) GetTimeout() time.Duration {
	return c.options.Timeout
}
