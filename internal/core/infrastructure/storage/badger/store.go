// Package badger 提供基于BadgerDB的分析事件存储
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	log "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/types"
)

// 事件键前缀，键格式 evt/<20位纳秒时间戳>/<uuid>
// 时间戳定长补零，字典序即时间顺序；uuid 保证同一纳秒的并发追加不会相互覆盖
const eventPrefix = "evt/"

// Store 实现 EventStore 接口
type Store struct {
	db     *badgerdb.DB
	logger log.Logger

	// 关闭过程中拒绝写入，避免与 db.Close 并发
	closing int32
	writeWg sync.WaitGroup
}

var _ interfaces.EventStore = (*Store)(nil)

// Open 打开（或创建）事件存储
// dir 为空时使用内存模式，数据不落盘
func Open(dir string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NopLogger{}
	}

	var opts badgerdb.Options
	if strings.TrimSpace(dir) == "" {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
		logger.Infof("初始化内存BadgerDB事件存储")
	} else {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("创建BadgerDB数据目录失败: %w", err)
		}
		opts = badgerdb.DefaultOptions(dir)
		opts.SyncWrites = true
		logger.Infof("初始化BadgerDB事件存储，数据目录: %s", dir)
	}

	// 事件量很小，缩小缓存和 vlog 文件
	opts.ValueLogFileSize = 16 << 20
	opts.MemTableSize = 8 << 20
	opts.BlockCacheSize = 8 << 20
	opts.IndexCacheSize = 4 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开BadgerDB失败: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close 关闭存储，等待进行中的写入完成
func (s *Store) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}

	waitCh := make(chan struct{})
	go func() {
		s.writeWg.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(10 * time.Second):
		s.logger.Warn("等待写入完成超时，继续关闭BadgerDB")
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	return nil
}

func (s *Store) beginWrite() (func(), error) {
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, fmt.Errorf("badger store is closing")
	}
	s.writeWg.Add(1)
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, fmt.Errorf("badger store is closing")
	}
	return s.writeWg.Done, nil
}

// Append 追加一条事件；未设置 ID 时自动生成
func (s *Store) Append(ctx context.Context, event types.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(eventKey(event), value)
	})
}

// List 返回全部事件，按时间升序
func (s *Store) List(ctx context.Context) ([]types.AnalyticsEvent, error) {
	return s.scan(ctx, false, 0)
}

// Recent 返回最近 n 条事件，最新的在前
func (s *Store) Recent(ctx context.Context, n int) ([]types.AnalyticsEvent, error) {
	if n <= 0 {
		return nil, nil
	}
	return s.scan(ctx, true, n)
}

func (s *Store) scan(ctx context.Context, reverse bool, limit int) ([]types.AnalyticsEvent, error) {
	var events []types.AnalyticsEvent
	prefix := []byte(eventPrefix)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if reverse {
			// 反向迭代需要从前缀范围的末尾开始
			start = append(append([]byte{}, prefix...), 0xff)
		}

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var event types.AnalyticsEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				// 单条损坏不影响其余事件
				s.logger.Warnf("跳过无法解析的事件 %s: %v", it.Item().Key(), err)
				continue
			}
			events = append(events, event)
			if limit > 0 && len(events) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func eventKey(event types.AnalyticsEvent) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", eventPrefix, event.Timestamp.UnixNano(), event.ID))
}

// badgerLogger 实现BadgerDB的日志接口
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof BadgerDB 的信息日志较多，降为 debug
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
