// Package memory 提供进程内的分析事件存储
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	storage "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/types"
)

// Store 基于切片的事件存储，进程退出即丢失
// 相同 ID 的事件只保留第一次写入
type Store struct {
	mu     sync.RWMutex
	events []types.AnalyticsEvent
	ids    map[string]struct{}
}

var _ storage.EventStore = (*Store)(nil)

// New 创建内存事件存储
func New() *Store {
	return &Store{ids: map[string]struct{}{}}
}

// Append 追加一条事件
func (s *Store) Append(ctx context.Context, event types.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	if _, dup := s.ids[event.ID]; dup {
		return nil
	}
	s.ids[event.ID] = struct{}{}
	s.events = append(s.events, event)
	return nil
}

// List 按时间升序返回副本
func (s *Store) List(ctx context.Context) ([]types.AnalyticsEvent, error) {
	s.mu.RLock()
	out := make([]types.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Recent 返回最近 n 条，最新的在前
func (s *Store) Recent(ctx context.Context, n int) ([]types.AnalyticsEvent, error) {
	all, _ := s.List(ctx)
	if n <= 0 {
		return nil, nil
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]types.AnalyticsEvent, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Close 无资源需要释放
func (s *Store) Close() error { return nil }
