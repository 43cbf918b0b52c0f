package analytics

import "time"

// 分析事件默认配置
const (
	// BackendBadger 本地持久化存储
	BackendBadger = "badger"
	// BackendRedis 多进程共享的 redis 列表
	BackendRedis = "redis"
	// BackendHTTP 转发到采集服务
	BackendHTTP = "http"
	// BackendMemory 进程内存，退出即丢失
	BackendMemory = "memory"

	defaultBackend   = BackendBadger
	defaultStoreDir  = "analytics"
	defaultRedisAddr = "127.0.0.1:6379"
	defaultRedisKey  = "txlink:analytics:events"
	defaultQueueSize = 256
	defaultTimeout   = 3 * time.Second
)
