// Package storage 定义分析事件存储接口
package storage

import (
	"context"

	"github.com/weisyn/txlinker/pkg/types"
)

// EventStore 只追加的事件存储
//
// 并发追加互不覆盖；读取按时间先后返回
type EventStore interface {
	// Append 追加一条事件
	Append(ctx context.Context, event types.AnalyticsEvent) error

	// List 返回全部事件，按时间升序
	List(ctx context.Context) ([]types.AnalyticsEvent, error)

	// Recent 返回最近 n 条事件，最新的在前
	Recent(ctx context.Context, n int) ([]types.AnalyticsEvent, error)

	// Close 释放底层资源
	Close() error
}
