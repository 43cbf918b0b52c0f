package embedded

import (
	"fmt"
	"strconv"
	"strings"
)

// BIP44 相关常量
const (
	// EthereumCoinType SLIP-0044 中以太坊的 coin type，EVM 链通用
	EthereumCoinType uint32 = 60

	// BIP44Purpose BIP44 标准的 purpose 值
	BIP44Purpose uint32 = 44

	// HardenedOffset 硬化派生偏移量
	HardenedOffset uint32 = 0x80000000
)

// DerivationPath BIP44 派生路径
type DerivationPath struct {
	Purpose      uint32 `json:"purpose"`
	CoinType     uint32 `json:"coin_type"`
	Account      uint32 `json:"account"`
	Change       uint32 `json:"change"`
	AddressIndex uint32 `json:"address_index"`
}

// DefaultDerivationPath m/44'/60'/0'/0/0
func DefaultDerivationPath() *DerivationPath {
	return &DerivationPath{Purpose: BIP44Purpose, CoinType: EthereumCoinType}
}

// ParseDerivationPath 解析派生路径字符串
// 支持格式: m/44'/60'/0'/0/0 或 44'/60'/0'/0/0，硬化标记可用 ' 或 h/H
func ParseDerivationPath(path string) (*DerivationPath, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "m/")
	path = strings.TrimPrefix(path, "M/")

	parts := strings.Split(path, "/")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid derivation path: expected 5 components, got %d", len(parts))
	}

	dp := &DerivationPath{}
	fields := []struct {
		name     string
		dst      *uint32
		hardened bool
	}{
		{"purpose", &dp.Purpose, true},
		{"coin type", &dp.CoinType, true},
		{"account", &dp.Account, true},
		{"change", &dp.Change, false},
		{"address index", &dp.AddressIndex, false},
	}
	for i, f := range fields {
		v, err := parsePathComponent(parts[i], f.hardened)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = v
	}

	if dp.Purpose != BIP44Purpose {
		return nil, fmt.Errorf("invalid purpose: expected %d (BIP44), got %d", BIP44Purpose, dp.Purpose)
	}
	if dp.Change > 1 {
		return nil, fmt.Errorf("invalid change: expected 0 or 1, got %d", dp.Change)
	}
	return dp, nil
}

// parsePathComponent 解析路径组件
func parsePathComponent(component string, requireHardened bool) (uint32, error) {
	isHardened := strings.HasSuffix(component, "'") || strings.HasSuffix(component, "H") || strings.HasSuffix(component, "h")
	if requireHardened && !isHardened {
		return 0, fmt.Errorf("hardened derivation required for %s", component)
	}
	if !requireHardened && isHardened {
		return 0, fmt.Errorf("unexpected hardened component %s", component)
	}

	component = strings.TrimRight(component, "'hH")
	value, err := strconv.ParseUint(component, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", component)
	}
	return uint32(value), nil
}

// String 返回路径字符串表示
func (dp *DerivationPath) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", dp.Purpose, dp.CoinType, dp.Account, dp.Change, dp.AddressIndex)
}

// ToUint32Array 转换为 hdkeychain 使用的索引序列（含硬化偏移）
func (dp *DerivationPath) ToUint32Array() []uint32 {
	return []uint32{
		dp.Purpose + HardenedOffset,
		dp.CoinType + HardenedOffset,
		dp.Account + HardenedOffset,
		dp.Change,
		dp.AddressIndex,
	}
}
