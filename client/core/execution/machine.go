package execution

import (
	"context"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	"github.com/weisyn/txlinker/client/core/analytics"
	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/pkg/chains"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// TopicStateChanged 状态变化通知的事件总线主题，处理函数签名为 func(Snapshot)
const TopicStateChanged = "execution:state_changed"

// WalletAdapter 状态机使用的钱包操作，*wallet.Adapter 满足该接口
type WalletAdapter interface {
	Initialize(ctx context.Context, chainID uint64, rpcURL string) (*wallet.Handle, error)
	Connect(ctx context.Context, h *wallet.Handle) (*wallet.Session, error)
	Submit(ctx context.Context, h *wallet.Handle, s *wallet.Session, d txlink.Description) (*wallet.Receipt, error)
}

// ChainResolver 链 ID 到默认 RPC 的映射，*chains.Registry 满足该接口
type ChainResolver interface {
	ResolveRPCURL(chainID uint64) string
}

type resolverFunc func(uint64) string

func (f resolverFunc) ResolveRPCURL(id uint64) string { return f(id) }

type actionRequest struct {
	action Action
	reply  chan error
}

// Machine 交易执行状态机
type Machine struct {
	token    txlink.Token
	adapter  WalletAdapter
	resolver ChainResolver
	sink     analytics.Sink
	bus      evbus.Bus
	logger   log.Logger

	actions chan actionRequest
	results chan func()
	done    chan struct{}
	started atomic.Bool

	snap    atomic.Pointer[Snapshot]
	waitMu  sync.Mutex
	changed chan struct{}

	// 以下字段只由 Run 协程访问
	state      State
	desc       txlink.Description
	rpcURL     string
	handle     *wallet.Handle
	session    *wallet.Session
	receipt    *wallet.Receipt
	lastErr    error
	failReason string
	connecting bool
}

// Option 状态机选项
type Option func(*Machine)

// WithResolver 替换链注册表
func WithResolver(r ChainResolver) Option { return func(m *Machine) { m.resolver = r } }

// WithSink 设置分析事件接收方
func WithSink(s analytics.Sink) Option { return func(m *Machine) { m.sink = s } }

// WithBus 使用外部事件总线
func WithBus(b evbus.Bus) Option { return func(m *Machine) { m.bus = b } }

// WithLogger 设置日志
func WithLogger(l log.Logger) Option { return func(m *Machine) { m.logger = l } }

// New 为一个链接令牌创建状态机，调用 Run 后开始工作
func New(token txlink.Token, adapter WalletAdapter, opts ...Option) *Machine {
	m := &Machine{
		token:    token,
		adapter:  adapter,
		resolver: resolverFunc(chains.ResolveRPCURL),
		sink:     analytics.NopSink{},
		logger:   log.NopLogger{},
		actions:  make(chan actionRequest),
		results:  make(chan func()),
		done:     make(chan struct{}),
		changed:  make(chan struct{}),
		state:    StateLoading,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = evbus.New()
	}
	m.snap.Store(&Snapshot{State: StateLoading})
	return m
}

// Run 执行状态机直到 ctx 结束，只能调用一次
//
// ctx 结束时进行中的钱包调用不会被取消，其结果被丢弃
func (m *Machine) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrStopped
	}
	defer func() {
		close(m.done)
		m.handle.Close()
		m.bus.WaitAsync()
	}()

	// 钱包调用有自己的超时，不随页面关闭而取消
	callCtx := context.WithoutCancel(ctx)
	m.load(callCtx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.actions:
			req.reply <- m.handleAction(callCtx, req.action)
		case apply := <-m.results:
			apply()
		}
	}
}

// Dispatch 提交用户操作，状态机处理后返回
// 操作在当前状态无效时返回 ErrActionIgnored，Run 已退出时返回 ErrStopped
// Run 尚未调用时阻塞等待，直到 Run 开始处理或 ctx 结束
func (m *Machine) Dispatch(ctx context.Context, action Action) error {
	req := actionRequest{action: action, reply: make(chan error, 1)}
	select {
	case m.actions <- req:
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot 当前状态视图
func (m *Machine) Snapshot() Snapshot {
	return *m.snap.Load()
}

// Subscribe 注册状态变化回调，回调按发布顺序在独立协程中执行
// 返回的函数用于取消订阅
func (m *Machine) Subscribe(fn func(Snapshot)) (func(), error) {
	if err := m.bus.SubscribeAsync(TopicStateChanged, fn, true); err != nil {
		return nil, err
	}
	return func() { _ = m.bus.Unsubscribe(TopicStateChanged, fn) }, nil
}

// Wait 阻塞直到 pred 对当前快照成立
func (m *Machine) Wait(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	for {
		m.waitMu.Lock()
		ch := m.changed
		m.waitMu.Unlock()

		s := m.Snapshot()
		if pred(s) {
			return s, nil
		}
		select {
		case <-ch:
		case <-m.done:
			s = m.Snapshot()
			if pred(s) {
				return s, nil
			}
			return s, ErrStopped
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		}
	}
}

// post 将钱包调用结果交回 Run 协程；状态机已停止时丢弃
func (m *Machine) post(apply func()) {
	select {
	case m.results <- apply:
	case <-m.done:
	}
}

// publish 更新快照并通知等待者与订阅者
func (m *Machine) publish() {
	s := &Snapshot{
		State:       m.state,
		Description: m.desc.Clone(),
		RPCURL:      m.rpcURL,
		Err:         m.lastErr,
		FailReason:  m.failReason,
		Connecting:  m.connecting,
	}
	if m.session != nil {
		sess := *m.session
		s.Session = &sess
	}
	if m.receipt != nil {
		r := *m.receipt
		s.Receipt = &r
	}
	m.snap.Store(s)

	m.waitMu.Lock()
	close(m.changed)
	m.changed = make(chan struct{})
	m.waitMu.Unlock()

	m.bus.Publish(TopicStateChanged, *s)
}
