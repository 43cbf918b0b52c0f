package api

import "time"

// 采集服务默认配置值
const (
	// defaultHost 只监听本机，对外暴露需显式配置
	defaultHost = "127.0.0.1"

	// defaultPort 采集服务端口
	defaultPort = 8088

	// defaultReadTimeout 请求读取超时
	defaultReadTimeout = 10 * time.Second

	// defaultWriteTimeout 响应写入超时
	defaultWriteTimeout = 10 * time.Second

	// defaultSummaryTTL 汇总结果缓存时间
	// 汇总需要扫描全部事件，短缓存可以吸收仪表盘的轮询
	defaultSummaryTTL = 10 * time.Second

	// defaultMaxBodyBytes 单个事件请求体上限（64KB）
	defaultMaxBodyBytes int64 = 64 * 1024
)
