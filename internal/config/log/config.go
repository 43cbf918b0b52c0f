package log

import (
	"github.com/weisyn/txlinker/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径，空表示不写文件

	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	EnableCaller     bool `json:"enable_caller"`
	EnableStacktrace bool `json:"enable_stacktrace"`

	LevelMap map[string]zapcore.Level `json:"-"`
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置，userConfig 为 nil 时使用默认值
func New(userConfig *types.UserLogConfig) *Config {
	options := createDefaultLogOptions()
	if userConfig != nil {
		applyUserLogConfig(options, userConfig)
	}
	return &Config{options: options}
}

// NewFromOptions 直接使用给定选项（测试与命令行覆盖使用）
func NewFromOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	if options.LevelMap == nil {
		options.LevelMap = defaultLevelMap
	}
	return &Config{options: options}
}

func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         defaultFilePath,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
		LevelMap:         defaultLevelMap,
	}
}

// applyUserLogConfig 只覆盖配置文件中实际出现的字段
func applyUserLogConfig(options *LogOptions, user *types.UserLogConfig) {
	if user.Level != nil {
		options.Level = *user.Level
	}
	if user.FilePath != nil {
		options.FilePath = *user.FilePath
		options.ToConsole = false // 指定文件路径时默认不输出到控制台
	}
	if user.ToConsole != nil {
		options.ToConsole = *user.ToConsole
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, ok := c.options.LevelMap[c.options.Level]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool { return c.options.ToConsole }

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string { return c.options.FilePath }

// CreateFileEncoder 创建文件编码器（JSON）
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
