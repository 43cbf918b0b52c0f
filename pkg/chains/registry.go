// Package chains 维护链 ID 到默认 RPC 端点的静态映射
//
// 未知链 ID 不会报错，而是回落到默认端点（Polygon 测试网），
// 保证即使 RPC 无法解析也能先向用户展示交易摘要。
// 需要在未知链上严格失败的调用方应先用 Lookup 检查。
package chains

import (
	"sort"
)

// DefaultChainID 未知链 ID 回落使用的链
const DefaultChainID uint64 = 80001

// Chain 链信息
type Chain struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	RPCURL       string `json:"rpc_url"`
	NativeSymbol string `json:"native_symbol"`
	Testnet      bool   `json:"testnet"`
}

// 内置链表
var builtin = map[uint64]Chain{
	1:     {ID: 1, Name: "Ethereum Mainnet", RPCURL: "https://ethereum.publicnode.com", NativeSymbol: "ETH"},
	5:     {ID: 5, Name: "Goerli Testnet", RPCURL: "https://goerli.infura.io/v3/", NativeSymbol: "ETH", Testnet: true},
	56:    {ID: 56, Name: "BNB Chain", RPCURL: "https://bsc-dataseed.binance.org", NativeSymbol: "BNB"},
	137:   {ID: 137, Name: "Polygon Mainnet", RPCURL: "https://polygon-rpc.com", NativeSymbol: "MATIC"},
	42161: {ID: 42161, Name: "Arbitrum One", RPCURL: "https://arb1.arbitrum.io/rpc", NativeSymbol: "ETH"},
	43114: {ID: 43114, Name: "Avalanche C-Chain", RPCURL: "https://api.avax.network/ext/bc/C/rpc", NativeSymbol: "AVAX"},
	80001: {ID: 80001, Name: "Polygon Mumbai Testnet", RPCURL: "https://rpc.ankr.com/polygon_mumbai", NativeSymbol: "MATIC", Testnet: true},
}

// Registry 链注册表，可在内置表之上追加配置中的链
type Registry struct {
	chains map[uint64]Chain
}

// NewRegistry 创建注册表，extra 中的条目覆盖同 ID 的内置条目
// RPCURL 为空的条目被忽略
func NewRegistry(extra ...Chain) *Registry {
	r := &Registry{chains: make(map[uint64]Chain, len(builtin)+len(extra))}
	for id, c := range builtin {
		r.chains[id] = c
	}
	for _, c := range extra {
		if c.ID == 0 || c.RPCURL == "" {
			continue
		}
		if c.Name == "" {
			if known, ok := builtin[c.ID]; ok {
				c.Name = known.Name
			}
		}
		r.chains[c.ID] = c
	}
	return r
}

// ResolveRPCURL 返回链的默认 RPC 端点，未知链回落到 DefaultChainID 的端点
func (r *Registry) ResolveRPCURL(chainID uint64) string {
	if c, ok := r.chains[chainID]; ok {
		return c.RPCURL
	}
	return r.chains[DefaultChainID].RPCURL
}

// Lookup 查询链是否在表中
func (r *Registry) Lookup(chainID uint64) (Chain, bool) {
	c, ok := r.chains[chainID]
	return c, ok
}

// All 按链 ID 升序返回所有链
func (r *Registry) All() []Chain {
	out := make([]Chain, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var defaultRegistry = NewRegistry()

// ResolveRPCURL 使用内置表解析 RPC 端点
func ResolveRPCURL(chainID uint64) string {
	return defaultRegistry.ResolveRPCURL(chainID)
}

// Lookup 使用内置表查询链
func Lookup(chainID uint64) (Chain, bool) {
	return defaultRegistry.Lookup(chainID)
}

// All 返回内置表中的所有链
func All() []Chain {
	return defaultRegistry.All()
}
