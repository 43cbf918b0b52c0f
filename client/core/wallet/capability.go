// Package wallet 封装嵌入式钱包能力：初始化、连接、签名并广播
//
// 钱包能力本身是不透明的（可以是托管 SDK，也可以是本地密钥），
// 本包负责构造链上交易（nonce、调用数据、费用）并为每次调用设置超时。
package wallet

import (
	"context"
	"time"
)

// Config 初始化钱包能力所需的参数
type Config struct {
	ClientID string
	ChainID  uint64
	RPCURL   string
}

// Account 连接成功后得到的账户
type Account struct {
	Address string
}

// TxObject 交给钱包能力签名的 EIP-1559 交易
// 数值字段均为十进制字符串，Data 为 0x 前缀的十六进制
type TxObject struct {
	Type                 uint8  `json:"type"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	Value                string `json:"value"`
	Data                 string `json:"data"`
	Nonce                string `json:"nonce"`
	Gas                  string `json:"gas"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	ChainID              string `json:"chainId"`
}

// CapabilityReceipt 钱包能力返回的广播结果
// BlockNumber 可能为空（尚未打包）
type CapabilityReceipt struct {
	TransactionHash string
	BlockNumber     string
}

// Capability 钱包能力工厂
type Capability interface {
	Init(ctx context.Context, cfg Config) (CapabilityHandle, error)
}

// CapabilityHandle 已初始化的钱包能力
type CapabilityHandle interface {
	// Connect 请求用户授权并返回账户
	Connect(ctx context.Context) (Account, error)
	// SignAndSend 签名并广播，purpose 为展示给用户的用途说明
	SignAndSend(ctx context.Context, tx *TxObject, purpose string) (*CapabilityReceipt, error)
}

// Timeouts 每类调用的最长等待时间，零值表示不限
type Timeouts struct {
	Init    time.Duration
	Connect time.Duration
	Submit  time.Duration
}
