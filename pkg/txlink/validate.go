package txlink

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ValidationError 描述违反不变量
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid transaction description: " + strings.Join(e.Problems, "; ")
}

// Validate 检查描述的不变量：
// 地址格式、chainId、ABI 可解析且包含函数、输入键是函数参数名（保留键除外）、参数齐全
func (d Description) Validate() error {
	var problems []string

	if !common.IsHexAddress(d.ContractAddress) {
		problems = append(problems, fmt.Sprintf("contractAddress %q is not a hex address", d.ContractAddress))
	}
	if d.ChainID == 0 {
		problems = append(problems, "chainId must be positive")
	}

	_, method, err := d.ResolveMethod()
	if err != nil {
		problems = append(problems, err.Error())
		return &ValidationError{Problems: problems}
	}

	declared := map[string]bool{}
	if method != nil {
		for _, in := range method.Inputs {
			declared[in.Name] = true
		}
	}

	var unknown []string
	for key := range d.FunctionInputs {
		if declared[key] || IsReservedInput(key, declared) {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		problems = append(problems, fmt.Sprintf("inputs not declared by %s: %s", describeTarget(d), strings.Join(unknown, ", ")))
	}

	if method != nil {
		var missing []string
		for _, in := range method.Inputs {
			if _, ok := d.FunctionInputs[in.Name]; !ok {
				missing = append(missing, in.Name)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("missing inputs for %s: %s", d.FunctionName, strings.Join(missing, ", ")))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describeTarget(d Description) string {
	if d.IsValueTransfer() {
		return "value transfer"
	}
	return d.FunctionName
}
