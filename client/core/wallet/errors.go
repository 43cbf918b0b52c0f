package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout 调用超过配置的等待时间
	ErrTimeout = errors.New("wallet call timed out")

	// ErrChainMismatch RPC 端点返回的 chainId 与描述不一致
	ErrChainMismatch = errors.New("rpc endpoint serves a different chain")

	// ErrFeeMismatch 链接中提供的 gas/费用参数与链上状态不符
	ErrFeeMismatch = errors.New("supplied fee parameters do not fit the chain")

	// ErrNotConnected 提交前没有会话
	ErrNotConnected = errors.New("wallet not connected")
)

// InitError 钱包能力或 RPC 初始化失败（终止性）
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("wallet init: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ConnectError 连接失败或用户取消（可重试）
type ConnectError struct {
	Op  string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("wallet connect: %s: %v", e.Op, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SubmitError 构造、签名或广播交易失败（可重试）
type SubmitError struct {
	Op  string
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit transaction: %s: %v", e.Op, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
