package txlink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// erc20ABI 常用 ERC-20 写方法，描述中未附带 ABI 时用于这些函数
const erc20ABI = `[
 {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var standardABI = mustParseABI(erc20ABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ErrNoABI 调用了函数但描述没有 ABI，且不是内置的标准函数
var ErrNoABI = errors.New("function call requires an abi")

// ResolveMethod 返回描述所调用的函数定义
// 原生币转账返回 (nil, nil)
func (d Description) ResolveMethod() (*abi.ABI, *abi.Method, error) {
	if d.IsValueTransfer() {
		return nil, nil, nil
	}

	var parsed abi.ABI
	if d.ABI == "" {
		if _, ok := standardABI.Methods[d.FunctionName]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoABI, d.FunctionName)
		}
		parsed = standardABI
	} else {
		var err error
		parsed, err = abi.JSON(strings.NewReader(d.ABI))
		if err != nil {
			return nil, nil, fmt.Errorf("parse abi: %w", err)
		}
	}

	method, ok := parsed.Methods[d.FunctionName]
	if !ok {
		return nil, nil, fmt.Errorf("function %s not found in abi", d.FunctionName)
	}
	return &parsed, &method, nil
}

// IsReservedInput 判断输入键是否为适配器保留键
// declared 为函数声明的参数名集合
func IsReservedInput(key string, declared map[string]bool) bool {
	switch key {
	case InputGas, InputMaxFee, InputMaxPriorityFee:
		return true
	case InputValue:
		return !declared[InputValue]
	}
	return false
}
