// Package embedded 提供本地密钥支持的钱包能力
//
// 密钥来自助记词（BIP39 + BIP44 派生）或十六进制私钥，交易在本地签名后经 RPC 广播。
// 会话适配器只通过 wallet.Capability 接口使用它。
package embedded

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
)

// ErrDeclined 用户拒绝了连接或签名请求
var ErrDeclined = errors.New("request declined by user")

// Broadcaster 广播已签名交易，*ethclient.Client 满足该接口
type Broadcaster interface {
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// Confirmer 向用户展示提示并等待确认；nil 表示自动同意
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Capability 本地密钥钱包
type Capability struct {
	key     *ecdsa.PrivateKey
	dial    func(ctx context.Context, rpcURL string) (Broadcaster, error)
	confirm Confirmer
	logger  log.Logger
}

var _ wallet.Capability = (*Capability)(nil)

// Option 钱包选项
type Option func(*Capability)

// WithConfirmer 设置用户确认方式
func WithConfirmer(c Confirmer) Option { return func(w *Capability) { w.confirm = c } }

// WithBroadcaster 替换广播连接（测试使用）
func WithBroadcaster(dial func(ctx context.Context, rpcURL string) (Broadcaster, error)) Option {
	return func(w *Capability) { w.dial = dial }
}

// WithLogger 设置日志
func WithLogger(l log.Logger) Option { return func(w *Capability) { w.logger = l } }

// New 使用已有私钥创建钱包
func New(key *ecdsa.PrivateKey, opts ...Option) *Capability {
	w := &Capability{
		key: key,
		dial: func(ctx context.Context, rpcURL string) (Broadcaster, error) {
			return ethclient.DialContext(ctx, rpcURL)
		},
		logger: log.NopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FromMnemonic 由助记词派生密钥创建钱包
func FromMnemonic(mnemonic, passphrase, path string, opts ...Option) (*Capability, error) {
	key, err := DeriveKey(mnemonic, passphrase, path)
	if err != nil {
		return nil, err
	}
	return New(key, opts...), nil
}

// FromPrivateKey 由十六进制私钥创建钱包
func FromPrivateKey(hexKey string, opts ...Option) (*Capability, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	return New(key, opts...), nil
}

// Address 钱包地址
func (w *Capability) Address() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

// Init 实现 wallet.Capability
func (w *Capability) Init(ctx context.Context, cfg wallet.Config) (wallet.CapabilityHandle, error) {
	if w.key == nil {
		return nil, errors.New("no signing key configured")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chain id is required")
	}
	b, err := w.dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}
	w.logger.Debugf("embedded wallet ready client=%s chainId=%d", cfg.ClientID, cfg.ChainID)
	return &handle{w: w, chainID: new(big.Int).SetUint64(cfg.ChainID), broadcaster: b}, nil
}

type handle struct {
	w           *Capability
	chainID     *big.Int
	broadcaster Broadcaster
}

// Connect 实现 wallet.CapabilityHandle
func (h *handle) Connect(ctx context.Context) (wallet.Account, error) {
	addr := h.w.Address().Hex()
	if err := h.w.ask(ctx, fmt.Sprintf("Connect wallet %s?", addr)); err != nil {
		return wallet.Account{}, err
	}
	return wallet.Account{Address: addr}, nil
}

// SignAndSend 实现 wallet.CapabilityHandle
func (h *handle) SignAndSend(ctx context.Context, obj *wallet.TxObject, purpose string) (*wallet.CapabilityReceipt, error) {
	tx, err := h.toTransaction(obj)
	if err != nil {
		return nil, err
	}
	if err := h.w.ask(ctx, purpose); err != nil {
		return nil, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(h.chainID), h.w.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := h.broadcaster.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	h.w.logger.Infof("transaction broadcast hash=%s", signed.Hash().Hex())
	return &wallet.CapabilityReceipt{TransactionHash: signed.Hash().Hex()}, nil
}

func (w *Capability) ask(ctx context.Context, prompt string) error {
	if w.confirm == nil {
		return nil
	}
	ok, err := w.confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

// toTransaction 将字符串字段的交易对象转换为 EIP-1559 交易
func (h *handle) toTransaction(obj *wallet.TxObject) (*types.Transaction, error) {
	if obj == nil {
		return nil, errors.New("nil transaction")
	}
	if obj.Type != types.DynamicFeeTxType {
		return nil, fmt.Errorf("unsupported transaction type %d", obj.Type)
	}
	if !strings.EqualFold(obj.From, h.w.Address().Hex()) {
		return nil, fmt.Errorf("transaction sender %s is not this wallet", obj.From)
	}
	if !common.IsHexAddress(obj.To) {
		return nil, fmt.Errorf("invalid recipient %q", obj.To)
	}

	chainID, err := parseBig("chainId", obj.ChainID)
	if err != nil {
		return nil, err
	}
	if chainID.Cmp(h.chainID) != 0 {
		return nil, fmt.Errorf("transaction chain %s does not match wallet chain %s", chainID, h.chainID)
	}
	nonce, err := strconv.ParseUint(obj.Nonce, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid nonce %q", obj.Nonce)
	}
	gas, err := strconv.ParseUint(obj.Gas, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid gas %q", obj.Gas)
	}
	value, err := parseBig("value", obj.Value)
	if err != nil {
		return nil, err
	}
	maxFee, err := parseBig("maxFeePerGas", obj.MaxFeePerGas)
	if err != nil {
		return nil, err
	}
	tip, err := parseBig("maxPriorityFeePerGas", obj.MaxPriorityFeePerGas)
	if err != nil {
		return nil, err
	}
	var data []byte
	if obj.Data != "" && obj.Data != "0x" {
		if data, err = hexutil.Decode(obj.Data); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}

	to := common.HexToAddress(obj.To)
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: maxFee,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	}), nil
}

func parseBig(field, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	return n, nil
}

// Close 关闭广播连接
func (h *handle) Close() {
	h.broadcaster.Close()
}
