package config

const (
	// defaultAppName 应用名称
	defaultAppName = "txlinker"

	// defaultDataDirName 数据根目录名，位于用户主目录下
	defaultDataDirName = ".txlinker"

	// ConfigPathEnv 指定配置文件路径的环境变量，优先级低于命令行参数
	ConfigPathEnv = "TXLINK_CONFIG"
)
