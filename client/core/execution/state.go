// Package execution 驱动一次交易链接页面的完整流程
//
// 状态机由单个协程（Run）拥有全部状态：解码链接、初始化钱包、连接、提交。
// 用户操作经 Dispatch 按顺序进入；钱包调用在辅助协程中执行，结果回送给状态机协程。
package execution

import (
	"errors"

	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// State 页面状态
type State int

const (
	StateLoading State = iota
	StateReadyNoWallet
	StateReadyConnected
	StateExecuting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReadyNoWallet:
		return "ready(no-wallet)"
	case StateReadyConnected:
		return "ready(wallet-connected)"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsReady 两种 Ready 状态
func (s State) IsReady() bool {
	return s == StateReadyNoWallet || s == StateReadyConnected
}

// IsTerminal 不会再发生状态转换
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Failed 状态的原因
const (
	ReasonInvalidLink = "invalid-link"
	ReasonInitFailed  = "init-failed"
)

// Action 用户操作
type Action int

const (
	ActionConnectWallet Action = iota
	ActionExecute
)

func (a Action) String() string {
	switch a {
	case ActionConnectWallet:
		return "connectWallet"
	case ActionExecute:
		return "execute"
	default:
		return "unknown"
	}
}

var (
	// ErrActionIgnored 当前状态下该操作不产生任何效果
	ErrActionIgnored = errors.New("action ignored in current state")

	// ErrStopped 状态机已停止（Run 已退出）
	ErrStopped = errors.New("execution machine is not running")
)

// Snapshot 某一时刻的只读视图
type Snapshot struct {
	State       State
	Description txlink.Description
	RPCURL      string
	Session     *wallet.Session
	Receipt     *wallet.Receipt
	// Err 最近一次失败；Ready 状态下为可重试的错误，Failed 状态下为终止原因
	Err        error
	FailReason string
	Connecting bool
}

// Address 已连接的地址，未连接时为空
func (s Snapshot) Address() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.Address
}
