// Package types 定义跨模块共享的配置与数据类型
package types

// UserConfig 用户配置文件（JSON）的根结构
// 只包含配置文件中实际出现的字段，未出现的字段保持 nil，由各配置模块套用默认值
type UserConfig struct {
	AppName   *string              `json:"app_name,omitempty"`
	DataDir   *string              `json:"data_dir,omitempty"`
	Log       *UserLogConfig       `json:"log,omitempty"`
	Analytics *UserAnalyticsConfig `json:"analytics,omitempty"`
	Wallet    *UserWalletConfig    `json:"wallet,omitempty"`
	API       *UserAPIConfig       `json:"api,omitempty"`
	Chains    []UserChainConfig    `json:"chains,omitempty"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否输出到控制台
}

// UserAnalyticsConfig 用户分析事件配置
type UserAnalyticsConfig struct {
	Backend      *string `json:"backend,omitempty"`       // badger | redis | http | memory
	StorePath    *string `json:"store_path,omitempty"`    // badger 数据目录
	RedisAddr    *string `json:"redis_addr,omitempty"`    // redis 地址
	RedisKey     *string `json:"redis_key,omitempty"`     // redis 列表键
	CollectorURL *string `json:"collector_url,omitempty"` // HTTP 采集服务根地址
	QueueSize    *int    `json:"queue_size,omitempty"`    // 异步投递队列长度
	Timeout      *string `json:"timeout,omitempty"`       // 单次投递超时，如 "3s"
}

// UserWalletConfig 用户钱包配置
type UserWalletConfig struct {
	ClientID       *string  `json:"client_id,omitempty"`       // 嵌入式钱包应用标识
	DerivationPath *string  `json:"derivation_path,omitempty"` // BIP44 派生路径
	InitTimeout    *string  `json:"init_timeout,omitempty"`
	ConnectTimeout *string  `json:"connect_timeout,omitempty"`
	SubmitTimeout  *string  `json:"submit_timeout,omitempty"`
	GasMultiplier  *float64 `json:"gas_multiplier,omitempty"` // 估算 gas 的放大系数
}

// UserAPIConfig 用户采集服务配置
type UserAPIConfig struct {
	Host         *string `json:"host,omitempty"`
	Port         *int    `json:"port,omitempty"`
	SummaryTTL   *string `json:"summary_ttl,omitempty"`
	MaxBodyBytes *int64  `json:"max_body_bytes,omitempty"`
}

// UserChainConfig 额外的链配置（覆盖或补充内置链表）
type UserChainConfig struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name,omitempty"`
	RPCURL string `json:"rpc_url"`
	Symbol string `json:"symbol,omitempty"`
}

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}
