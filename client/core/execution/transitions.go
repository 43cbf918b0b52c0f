package execution

import (
	"context"
	"errors"

	"github.com/weisyn/txlinker/client/core/analytics"
	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// load 进入 Loading：解码链接并启动钱包初始化
func (m *Machine) load(ctx context.Context) {
	m.record(analytics.EventPageVisit, nil)

	desc, err := txlink.Decode(m.token)
	if err != nil {
		m.fail(ReasonInvalidLink, err, nil)
		return
	}
	m.desc = desc.Clone()

	m.rpcURL = desc.RPCURL
	if m.rpcURL == "" {
		m.rpcURL = m.resolver.ResolveRPCURL(desc.ChainID)
	}
	m.publish()

	chainID, rpcURL := desc.ChainID, m.rpcURL
	go func() {
		h, err := m.adapter.Initialize(ctx, chainID, rpcURL)
		m.post(func() { m.initialized(h, err) })
	}()
}

func (m *Machine) initialized(h *wallet.Handle, err error) {
	if m.state != StateLoading {
		return
	}
	if err != nil {
		m.fail(ReasonInitFailed, err, m.descPayload())
		return
	}
	m.handle = h
	m.state = StateReadyNoWallet
	m.logger.Infof("page ready chainId=%d rpc=%s", m.desc.ChainID, m.rpcURL)
	m.record(analytics.EventPageInit, m.descPayload())
	m.publish()
}

// fail Loading → Failed
func (m *Machine) fail(reason string, err error, payload map[string]interface{}) {
	m.state = StateFailed
	m.failReason = reason
	m.lastErr = err
	m.logger.Warnf("page failed reason=%s: %v", reason, err)

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload[analytics.KeyReason] = reason
	payload[analytics.KeyError] = err.Error()
	m.record(analytics.EventPageInitError, payload)
	m.publish()
}

func (m *Machine) handleAction(ctx context.Context, action Action) error {
	switch action {
	case ActionConnectWallet:
		return m.connect(ctx)
	case ActionExecute:
		return m.execute(ctx)
	default:
		return ErrActionIgnored
	}
}

// connect Ready(*) 下发起连接；重复连接会替换会话
func (m *Machine) connect(ctx context.Context) error {
	if !m.state.IsReady() || m.connecting {
		return ErrActionIgnored
	}
	m.connecting = true
	m.lastErr = nil
	m.publish()

	h := m.handle
	go func() {
		s, err := m.adapter.Connect(ctx, h)
		m.post(func() { m.connected(s, err) })
	}()
	return nil
}

func (m *Machine) connected(s *wallet.Session, err error) {
	m.connecting = false
	if !m.state.IsReady() {
		return
	}

	payload := m.descPayload()
	if err != nil {
		// 自环：保持当前 Ready 状态
		m.lastErr = err
		payload[analytics.KeyError] = err.Error()
		m.logger.Warnf("wallet connect failed: %v", err)
		m.record(analytics.EventWalletConnectError, payload)
		m.publish()
		return
	}
	if s == nil {
		m.lastErr = &wallet.ConnectError{Op: "connect", Err: errors.New("no session returned")}
		payload[analytics.KeyError] = m.lastErr.Error()
		m.record(analytics.EventWalletConnectError, payload)
		m.publish()
		return
	}

	m.session = s
	m.state = StateReadyConnected
	m.lastErr = nil
	payload[analytics.KeyAddress] = s.Address
	m.record(analytics.EventWalletConnected, payload)
	m.publish()
}

// execute Ready(wallet-connected) → Executing；Executing 下重复调用被忽略
func (m *Machine) execute(ctx context.Context) error {
	if m.state != StateReadyConnected || m.connecting {
		return ErrActionIgnored
	}
	m.state = StateExecuting
	m.lastErr = nil

	payload := m.descPayload()
	payload[analytics.KeyAddress] = m.session.Address
	m.record(analytics.EventTransactionExecutionStart, payload)
	m.publish()

	h, s, d := m.handle, m.session, m.desc.Clone()
	go func() {
		r, err := m.adapter.Submit(ctx, h, s, d)
		m.post(func() { m.executed(r, err) })
	}()
	return nil
}

func (m *Machine) executed(r *wallet.Receipt, err error) {
	if m.state != StateExecuting {
		return
	}
	payload := m.descPayload()
	payload[analytics.KeyAddress] = m.session.Address

	if err == nil && r == nil {
		err = &wallet.SubmitError{Op: "submit", Err: errors.New("no receipt returned")}
	}
	if err != nil {
		m.state = StateReadyConnected
		m.lastErr = err
		payload[analytics.KeyError] = err.Error()
		m.logger.Warnf("transaction failed: %v", err)
		m.record(analytics.EventTransactionError, payload)
		m.publish()
		return
	}

	m.state = StateSucceeded
	m.receipt = r
	payload[analytics.KeyTxHash] = r.Hash
	m.logger.Infof("transaction submitted hash=%s", r.Hash)
	m.record(analytics.EventTransactionSuccess, payload)
	m.publish()
}

// descPayload 事件载荷中可公开的描述字段
func (m *Machine) descPayload() map[string]interface{} {
	p := map[string]interface{}{
		analytics.KeyChainID:         m.desc.ChainID,
		analytics.KeyContractAddress: m.desc.ContractAddress,
	}
	if m.desc.FunctionName != "" {
		p[analytics.KeyFunctionName] = m.desc.FunctionName
	}
	return p
}

func (m *Machine) record(name string, payload map[string]interface{}) {
	m.sink.Record(name, payload)
}
