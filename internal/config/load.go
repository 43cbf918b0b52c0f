package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/weisyn/txlinker/pkg/types"
)

// envOverrides 可通过环境变量覆盖的配置项
// 指针字段只在对应变量存在时被设置
type envOverrides struct {
	DataDir *string `env:"TXLINK_DATA_DIR"`

	LogLevel *string `env:"TXLINK_LOG_LEVEL"`
	LogFile  *string `env:"TXLINK_LOG_FILE"`

	AnalyticsBackend      *string `env:"TXLINK_ANALYTICS_BACKEND"`
	AnalyticsStorePath    *string `env:"TXLINK_ANALYTICS_STORE_PATH"`
	AnalyticsRedisAddr    *string `env:"TXLINK_ANALYTICS_REDIS_ADDR"`
	AnalyticsCollectorURL *string `env:"TXLINK_ANALYTICS_COLLECTOR_URL"`

	WalletClientID      *string  `env:"TXLINK_WALLET_CLIENT_ID"`
	WalletGasMultiplier *float64 `env:"TXLINK_WALLET_GAS_MULTIPLIER"`

	APIHost *string `env:"TXLINK_API_HOST"`
	APIPort *int    `env:"TXLINK_API_PORT"`
}

// Load 读取配置文件并套用环境变量覆盖
// path 为空或文件不存在时从空配置开始；文件存在但无法解析时返回错误
func Load(path string) (*types.UserConfig, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 只读取 JSON 配置文件
func LoadFile(path string) (*types.UserConfig, error) {
	cfg := &types.UserConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv 将 TXLINK_* 环境变量覆盖到 cfg
func ApplyEnv(cfg *types.UserConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.DataDir != nil {
		cfg.DataDir = o.DataDir
	}

	if o.LogLevel != nil || o.LogFile != nil {
		if cfg.Log == nil {
			cfg.Log = &types.UserLogConfig{}
		}
		setIfPresent(&cfg.Log.Level, o.LogLevel)
		setIfPresent(&cfg.Log.FilePath, o.LogFile)
	}

	if o.AnalyticsBackend != nil || o.AnalyticsStorePath != nil || o.AnalyticsRedisAddr != nil || o.AnalyticsCollectorURL != nil {
		if cfg.Analytics == nil {
			cfg.Analytics = &types.UserAnalyticsConfig{}
		}
		setIfPresent(&cfg.Analytics.Backend, o.AnalyticsBackend)
		setIfPresent(&cfg.Analytics.StorePath, o.AnalyticsStorePath)
		setIfPresent(&cfg.Analytics.RedisAddr, o.AnalyticsRedisAddr)
		setIfPresent(&cfg.Analytics.CollectorURL, o.AnalyticsCollectorURL)
	}

	if o.WalletClientID != nil || o.WalletGasMultiplier != nil {
		if cfg.Wallet == nil {
			cfg.Wallet = &types.UserWalletConfig{}
		}
		setIfPresent(&cfg.Wallet.ClientID, o.WalletClientID)
		setIfPresent(&cfg.Wallet.GasMultiplier, o.WalletGasMultiplier)
	}

	if o.APIHost != nil || o.APIPort != nil {
		if cfg.API == nil {
			cfg.API = &types.UserAPIConfig{}
		}
		setIfPresent(&cfg.API.Host, o.APIHost)
		setIfPresent(&cfg.API.Port, o.APIPort)
	}
	return nil
}

func setIfPresent[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// ResolvePath 确定配置文件路径：显式参数优先，其次 TXLINK_CONFIG
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(ConfigPathEnv)
}
