package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// Handle 初始化完成的钱包与 RPC 连接
type Handle struct {
	ChainID uint64
	RPCURL  string

	chain      ChainReader
	capability CapabilityHandle
}

// Close 关闭 RPC 连接
func (h *Handle) Close() {
	if h == nil {
		return
	}
	if h.chain != nil {
		h.chain.Close()
	}
	if c, ok := h.capability.(interface{ Close() }); ok {
		c.Close()
	}
}

// Session 已连接的钱包账户，重新连接时整体替换
type Session struct {
	Address string
	ChainID uint64
}

// Receipt 广播结果，数值统一为十进制字符串
type Receipt struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber,omitempty"`
}

// Adapter 钱包会话适配器
type Adapter struct {
	capability    Capability
	dial          Dialer
	clientID      string
	timeouts      Timeouts
	gasMultiplier float64
	logger        log.Logger
}

// Option 适配器选项
type Option func(*Adapter)

// WithDialer 替换 RPC 连接方式（测试使用）
func WithDialer(d Dialer) Option { return func(a *Adapter) { a.dial = d } }

// WithTimeouts 设置各类调用超时
func WithTimeouts(t Timeouts) Option { return func(a *Adapter) { a.timeouts = t } }

// WithClientID 设置钱包应用标识
func WithClientID(id string) Option { return func(a *Adapter) { a.clientID = id } }

// WithGasMultiplier 未提供 gas 时估算值的放大系数
func WithGasMultiplier(m float64) Option { return func(a *Adapter) { a.gasMultiplier = m } }

// WithLogger 设置日志
func WithLogger(l log.Logger) Option { return func(a *Adapter) { a.logger = l } }

// NewAdapter 创建适配器
func NewAdapter(capability Capability, opts ...Option) *Adapter {
	a := &Adapter{
		capability:    capability,
		dial:          DialEthclient,
		gasMultiplier: 1.2,
		logger:        log.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize 连接 RPC、核对 chainId 并初始化钱包能力
func (a *Adapter) Initialize(ctx context.Context, chainID uint64, rpcURL string) (*Handle, error) {
	if a.capability == nil {
		return nil, &InitError{Op: "capability", Err: errors.New("no wallet capability available")}
	}

	h, err := callWithTimeout(ctx, a.timeouts.Init, func(ctx context.Context) (*Handle, error) {
		chain, err := a.dial(ctx, rpcURL)
		if err != nil {
			return nil, &InitError{Op: "dial " + rpcURL, Err: err}
		}

		served, err := chain.ChainID(ctx)
		if err != nil {
			chain.Close()
			return nil, &InitError{Op: "chain id", Err: err}
		}
		if !served.IsUint64() || served.Uint64() != chainID {
			chain.Close()
			return nil, &InitError{Op: "chain id", Err: fmt.Errorf("%w: want %d, endpoint reports %s", ErrChainMismatch, chainID, served)}
		}

		ch, err := a.capability.Init(ctx, Config{ClientID: a.clientID, ChainID: chainID, RPCURL: rpcURL})
		if err != nil {
			chain.Close()
			return nil, &InitError{Op: "capability", Err: err}
		}

		a.logger.Infof("wallet initialized chainId=%d rpc=%s", chainID, rpcURL)
		return &Handle{ChainID: chainID, RPCURL: rpcURL, chain: chain, capability: ch}, nil
	})
	if err != nil {
		var ie *InitError
		if !errors.As(err, &ie) {
			err = &InitError{Op: "initialize", Err: err}
		}
		return nil, err
	}
	return h, nil
}

// Connect 请求钱包账户
func (a *Adapter) Connect(ctx context.Context, h *Handle) (*Session, error) {
	if h == nil || h.capability == nil {
		return nil, &ConnectError{Op: "handle", Err: errors.New("wallet not initialized")}
	}

	account, err := callWithTimeout(ctx, a.timeouts.Connect, h.capability.Connect)
	if err != nil {
		return nil, &ConnectError{Op: "connect", Err: err}
	}
	if !common.IsHexAddress(account.Address) {
		return nil, &ConnectError{Op: "connect", Err: fmt.Errorf("wallet returned invalid address %q", account.Address)}
	}
	return &Session{Address: common.HexToAddress(account.Address).Hex(), ChainID: h.ChainID}, nil
}

// Submit 构造、签名并广播交易
func (a *Adapter) Submit(ctx context.Context, h *Handle, s *Session, d txlink.Description) (*Receipt, error) {
	if h == nil || h.capability == nil {
		return nil, &SubmitError{Op: "handle", Err: errors.New("wallet not initialized")}
	}
	if s == nil {
		return nil, &SubmitError{Op: "session", Err: ErrNotConnected}
	}
	if d.ChainID != h.ChainID || s.ChainID != h.ChainID {
		return nil, &SubmitError{Op: "chain", Err: fmt.Errorf("%w: description targets %d, wallet is on %d", ErrChainMismatch, d.ChainID, h.ChainID)}
	}
	if err := d.Validate(); err != nil {
		return nil, &SubmitError{Op: "validate", Err: err}
	}

	receipt, err := callWithTimeout(ctx, a.timeouts.Submit, func(ctx context.Context) (*Receipt, error) {
		c, err := buildCall(d)
		if err != nil {
			return nil, &SubmitError{Op: "encode call", Err: err}
		}

		from := common.HexToAddress(s.Address)
		nonce, err := h.chain.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, &SubmitError{Op: "nonce", Err: err}
		}

		plan, err := planFees(ctx, h.chain, from, c, d.FunctionInputs, a.gasMultiplier)
		if err != nil {
			return nil, &SubmitError{Op: "fees", Err: err}
		}

		tx := &TxObject{
			Type:                 2,
			From:                 from.Hex(),
			To:                   c.To.Hex(),
			Value:                c.Value.String(),
			Data:                 hexutil.Encode(c.Data),
			Nonce:                strconv.FormatUint(nonce, 10),
			Gas:                  strconv.FormatUint(plan.Gas, 10),
			MaxFeePerGas:         plan.MaxFeePerGas.String(),
			MaxPriorityFeePerGas: plan.MaxPriorityFeePerGas.String(),
			ChainID:              strconv.FormatUint(h.ChainID, 10),
		}

		a.logger.Debugf("submitting tx to=%s nonce=%s gas=%s", tx.To, tx.Nonce, tx.Gas)
		res, err := h.capability.SignAndSend(ctx, tx, purpose(d))
		if err != nil {
			return nil, &SubmitError{Op: "sign and send", Err: err}
		}
		if res == nil || res.TransactionHash == "" {
			return nil, &SubmitError{Op: "sign and send", Err: errors.New("wallet returned no transaction hash")}
		}
		return &Receipt{Hash: res.TransactionHash, BlockNumber: decimalString(res.BlockNumber)}, nil
	})
	if err != nil {
		var se *SubmitError
		if !errors.As(err, &se) {
			err = &SubmitError{Op: "submit", Err: err}
		}
		return nil, err
	}
	return receipt, nil
}

func purpose(d txlink.Description) string {
	if d.IsValueTransfer() {
		return fmt.Sprintf("Transfer to %s on chain %d", d.ContractAddress, d.ChainID)
	}
	return fmt.Sprintf("Call %s on %s (chain %d)", d.FunctionName, d.ContractAddress, d.ChainID)
}

// decimalString 十六进制数值转为十进制，无法识别时原样返回
func decimalString(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if n, ok := new(big.Int).SetString(s[2:], 16); ok {
			return n.String()
		}
	}
	return s
}
