// Package redis 提供基于 redis 列表的分析事件存储，多个进程可共享同一列表
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/types"
)

// listClient 存储用到的 redis 列表操作，便于测试替换
type listClient interface {
	RPush(ctx context.Context, key string, value []byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	Close() error
}

// Store 实现 EventStore，所有事件 RPUSH 到同一个列表，追加是原子的
type Store struct {
	client listClient
	key    string
	logger log.Logger
}

var _ storage.EventStore = (*Store)(nil)

// Open 连接 redis 并创建事件存储
func Open(ctx context.Context, addr, key string, logger log.Logger) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if key == "" {
		return nil, fmt.Errorf("redis key cannot be empty")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newStore(&goRedisClient{client: client}, key, logger), nil
}

func newStore(client listClient, key string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Store{client: client, key: key, logger: logger}
}

// Append 追加一条事件
func (s *Store) Append(ctx context.Context, event types.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data); err != nil {
		return fmt.Errorf("rpush %s: %w", s.key, err)
	}
	return nil
}

// List 返回全部事件（列表顺序即追加顺序）
func (s *Store) List(ctx context.Context) ([]types.AnalyticsEvent, error) {
	return s.lrange(ctx, 0, -1)
}

// Recent 返回最近 n 条，最新的在前
func (s *Store) Recent(ctx context.Context, n int) ([]types.AnalyticsEvent, error) {
	if n <= 0 {
		return nil, nil
	}
	events, err := s.lrange(ctx, int64(-n), -1)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (s *Store) lrange(ctx context.Context, start, stop int64) ([]types.AnalyticsEvent, error) {
	items, err := s.client.LRange(ctx, s.key, start, stop)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}
	events := make([]types.AnalyticsEvent, 0, len(items))
	for _, item := range items {
		var event types.AnalyticsEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			s.logger.Warnf("跳过无法解析的事件: %v", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Close 关闭连接
func (s *Store) Close() error {
	return s.client.Close()
}

// goRedisClient go-redis 客户端实现
type goRedisClient struct {
	client *goredis.Client
}

func (c *goRedisClient) RPush(ctx context.Context, key string, value []byte) error {
	return c.client.RPush(ctx, key, value).Err()
}

func (c *goRedisClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.client.LRange(ctx, key, start, stop).Result()
}

func (c *goRedisClient) Close() error {
	return c.client.Close()
}
