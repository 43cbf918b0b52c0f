// Package storage 按配置创建分析事件存储
package storage

import (
	"context"
	"fmt"

	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	"github.com/weisyn/txlinker/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/txlinker/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/txlinker/internal/core/infrastructure/storage/redis"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

// NewEventStore 根据后端名称创建事件存储
//
// http 后端没有本地存储，返回 nil 与错误，由调用方决定是否改用 HTTP 转发
func NewEventStore(ctx context.Context, cfg *analyticsconfig.Config, logger log.Logger) (storageInterface.EventStore, error) {
	opts := cfg.GetOptions()
	switch opts.Backend {
	case analyticsconfig.BackendBadger:
		store, err := badger.Open(opts.StorePath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case analyticsconfig.BackendRedis:
		store, err := redis.Open(ctx, opts.RedisAddr, opts.RedisKey, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case analyticsconfig.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("analytics backend %q has no event store", opts.Backend)
	}
}
