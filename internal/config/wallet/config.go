package wallet

import (
	"time"

	"github.com/weisyn/txlinker/pkg/types"
)

// WalletOptions 钱包会话配置
type WalletOptions struct {
	ClientID       string        `json:"client_id"`
	DerivationPath string        `json:"derivation_path"`
	InitTimeout    time.Duration `json:"init_timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	SubmitTimeout  time.Duration `json:"submit_timeout"`
	GasMultiplier  float64       `json:"gas_multiplier"`
}

// Config 钱包配置实现
type Config struct {
	options *WalletOptions
}

// New 创建钱包配置
func New(userConfig *types.UserWalletConfig) *Config {
	options := &WalletOptions{
		ClientID:       defaultClientID,
		DerivationPath: defaultDerivationPath,
		InitTimeout:    defaultInitTimeout,
		ConnectTimeout: defaultConnectTimeout,
		SubmitTimeout:  defaultSubmitTimeout,
		GasMultiplier:  defaultGasMultiplier,
	}
	if userConfig == nil {
		return &Config{options: options}
	}

	if userConfig.ClientID != nil && *userConfig.ClientID != "" {
		options.ClientID = *userConfig.ClientID
	}
	if userConfig.DerivationPath != nil && *userConfig.DerivationPath != "" {
		options.DerivationPath = *userConfig.DerivationPath
	}
	options.InitTimeout = parseDuration(userConfig.InitTimeout, options.InitTimeout)
	options.ConnectTimeout = parseDuration(userConfig.ConnectTimeout, options.ConnectTimeout)
	options.SubmitTimeout = parseDuration(userConfig.SubmitTimeout, options.SubmitTimeout)
	if userConfig.GasMultiplier != nil && *userConfig.GasMultiplier >= 1 {
		options.GasMultiplier = *userConfig.GasMultiplier
	}
	return &Config{options: options}
}

// parseDuration 无法解析或非正数时保留默认值
func parseDuration(s *string, fallback time.Duration) time.Duration {
	if s == nil {
		return fallback
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *WalletOptions {
	return c.options
}
