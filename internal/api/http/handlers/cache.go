package handlers

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

const summaryKey = "summary"

// summaryCache 缓存序列化后的汇总结果
// bigcache 只在清理周期淘汰条目，条目前 8 字节存放过期时间用于精确判断
//
// gen 为写入代数：每次 invalidate 加一。汇总开始前记下代数，
// 写回缓存时代数已变化说明期间有新事件，结果不再缓存
type summaryCache struct {
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time

	mu  sync.Mutex
	gen uint64

	closeOnce sync.Once
}

// newSummaryCache ttl 为 0 时不缓存，返回 nil
func newSummaryCache(ttl time.Duration) (*summaryCache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 1
	cfg.MaxEntriesInWindow = 16
	cfg.MaxEntrySize = 16 * 1024
	cfg.CleanWindow = ttl
	cfg.Verbose = false
	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return &summaryCache{cache: cache, ttl: ttl, now: time.Now}, nil
}

func (c *summaryCache) get() ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	entry, err := c.cache.Get(summaryKey)
	if err != nil || len(entry) < 8 {
		return nil, false
	}
	expiresAt := int64(binary.BigEndian.Uint64(entry[:8]))
	if c.now().UnixNano() >= expiresAt {
		_ = c.cache.Delete(summaryKey)
		return nil, false
	}
	return entry[8:], true
}

// generation 汇总前调用，结果交给 set
func (c *summaryCache) generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *summaryCache) set(gen uint64, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	entry := make([]byte, 8+len(body))
	binary.BigEndian.PutUint64(entry[:8], uint64(c.now().Add(c.ttl).UnixNano()))
	copy(entry[8:], body)
	_ = c.cache.Set(summaryKey, entry)
}

// invalidate 新事件写入后丢弃旧汇总
func (c *summaryCache) invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	_ = c.cache.Delete(summaryKey)
}

func (c *summaryCache) close() error {
	if c == nil {
		return nil
	}
	var err error
	c.closeOnce.Do(func() { err = c.cache.Close() })
	return err
}
