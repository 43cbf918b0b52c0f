// Package txlink 实现交易描述与可分享链接令牌之间的编解码
//
// 编码过程：交易描述 → 规范 JSON（字段顺序固定、映射键排序）→ base64url（无填充）。
// 解码过程为其逆过程，并对结构进行校验。本包不访问网络或链。
package txlink

import "maps"

// 保留的输入键：不属于合约函数参数，由钱包适配器解释
const (
	InputGas            = "gas"        // gas 上限
	InputMaxFee         = "maxgas"     // maxFeePerGas（wei）
	InputMaxPriorityFee = "maxpriogas" // maxPriorityFeePerGas（wei）
	InputValue          = "value"      // 随交易转账的原生币数量（wei），函数自身声明 value 参数时按参数处理
)

// Description 一次合约调用（或原生币转账）的完整描述
// 字段顺序即规范 JSON 的字段顺序，修改会改变已发布链接的编码
type Description struct {
	ContractAddress string            `json:"contractAddress"`
	ChainID         uint64            `json:"chainId"`
	FunctionName    string            `json:"functionName,omitempty"`
	FunctionInputs  map[string]string `json:"functionInputs"`
	ABI             string            `json:"abi,omitempty"`
	RPCURL          string            `json:"rpcUrl,omitempty"`
}

// Token 嵌入在分享链接中的不透明字符串
type Token string

// String 实现 fmt.Stringer
func (t Token) String() string { return string(t) }

// Clone 返回深拷贝，调用方修改副本不影响原值
func (d Description) Clone() Description {
	c := d
	if d.FunctionInputs != nil {
		c.FunctionInputs = maps.Clone(d.FunctionInputs)
	}
	return c
}

// IsValueTransfer 没有函数名时视为原生币转账
func (d Description) IsValueTransfer() bool {
	return d.FunctionName == ""
}

// Equal 逐字段比较（nil 与空映射视为不同）
func (d Description) Equal(o Description) bool {
	if d.ContractAddress != o.ContractAddress || d.ChainID != o.ChainID ||
		d.FunctionName != o.FunctionName || d.ABI != o.ABI || d.RPCURL != o.RPCURL {
		return false
	}
	if (d.FunctionInputs == nil) != (o.FunctionInputs == nil) {
		return false
	}
	return maps.Equal(d.FunctionInputs, o.FunctionInputs)
}
