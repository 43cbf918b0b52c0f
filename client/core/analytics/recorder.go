package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
)

// Sink 事件接收方
type Sink interface {
	// Record 记录一条事件，不阻塞、不失败
	Record(name string, payload map[string]interface{})
}

// Backend 事件的最终去处
type Backend interface {
	Deliver(ctx context.Context, event Event) error
}

// DeliveryError 后端投递失败，只记录日志
type DeliveryError struct {
	Event string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver analytics event %s: %v", e.Event, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ErrRecorderClosed 关闭后调用 Close 的返回值
var ErrRecorderClosed = errors.New("analytics recorder closed")

// NopSink 丢弃所有事件
type NopSink struct{}

// Record 实现 Sink
func (NopSink) Record(string, map[string]interface{}) {}

// Recorder 带缓冲队列的异步 Sink
type Recorder struct {
	backend Backend
	logger  log.Logger
	timeout time.Duration

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	done   chan struct{}

	dropped   atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

var _ Sink = (*Recorder)(nil)

// NewRecorder 创建并启动投递协程
// queueSize 和 timeout 非正数时使用 256 与 3s
func NewRecorder(backend Backend, queueSize int, timeout time.Duration, logger log.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = log.NopLogger{}
	}

	r := &Recorder{
		backend: backend,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record 入队；队列已满或已关闭时丢弃事件
func (r *Recorder) Record(name string, payload map[string]interface{}) {
	event := NewEvent(name, payload)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Debugf("recorder closed, dropping analytics event %s", name)
		return
	}

	select {
	case r.queue <- event:
	default:
		r.dropped.Add(1)
		r.logger.Warnf("analytics queue full, dropping event %s", name)
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for event := range r.queue {
		r.deliver(event)
	}
}

func (r *Recorder) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.backend.Deliver(ctx, event); err != nil {
		r.failed.Add(1)
		derr := &DeliveryError{Event: event.Name, Err: err}
		r.logger.Warnf("%v", derr)
		return
	}
	r.delivered.Add(1)
}

// Close 停止接收新事件，等待队列中的事件投递完毕或 ctx 结束
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderClosed
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats 投递统计
type Stats struct {
	Delivered uint64
	Failed    uint64
	Dropped   uint64
}

// Stats 返回当前统计
func (r *Recorder) Stats() Stats {
	return Stats{Delivered: r.delivered.Load(), Failed: r.failed.Load(), Dropped: r.dropped.Load()}
}
