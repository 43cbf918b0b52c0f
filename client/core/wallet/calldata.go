package wallet

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// call 由交易描述推导出的链上调用
type call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// buildCall 根据 ABI 与字符串输入重新编码调用数据
// 没有函数名时为原生币转账，Data 为空
func buildCall(d txlink.Description) (*call, error) {
	c := &call{To: common.HexToAddress(d.ContractAddress), Value: new(big.Int)}

	_, method, err := d.ResolveMethod()
	if err != nil {
		return nil, err
	}

	declared := map[string]bool{}
	if method != nil {
		for _, in := range method.Inputs {
			declared[in.Name] = true
		}
	}
	if raw, ok := d.FunctionInputs[txlink.InputValue]; ok && txlink.IsReservedInput(txlink.InputValue, declared) {
		v, err := parseUint256(raw)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		c.Value = v
	}

	if method == nil {
		return c, nil
	}
	if c.Value.Sign() > 0 && !method.IsPayable() {
		return nil, fmt.Errorf("function %s is not payable but value %s was supplied", method.Name, c.Value)
	}

	args := make([]interface{}, 0, len(method.Inputs))
	for _, in := range method.Inputs {
		raw, ok := d.FunctionInputs[in.Name]
		if !ok {
			return nil, fmt.Errorf("missing input %q", in.Name)
		}
		v, err := convertArg(in.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("input %q (%s): %w", in.Name, in.Type.String(), err)
		}
		args = append(args, v)
	}

	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method.Name, err)
	}
	c.Data = append(append([]byte{}, method.ID...), packed...)
	return c, nil
}

// convertArg 将字符串形式的参数转换为 go-ethereum ABI 编码所需的 Go 值
func convertArg(t abi.Type, raw string) (interface{}, error) {
	v, err := convertValue(t, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func convertValue(t abi.Type, raw string) (reflect.Value, error) {
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return reflect.Value{}, fmt.Errorf("%q is not an address", raw)
		}
		return reflect.ValueOf(common.HexToAddress(raw)), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not a bool", raw)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		return reflect.ValueOf(raw), nil

	case abi.UintTy, abi.IntTy:
		return convertInteger(t, raw)

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not 0x-prefixed hex", raw)
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q is not 0x-prefixed hex", raw)
		}
		if len(b) > t.Size {
			return reflect.Value{}, fmt.Errorf("%d bytes do not fit bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr, nil

	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, raw)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t.String())
	}
}

// convertInteger 位宽不超过 64 的整数使用原生类型，其余使用 *big.Int
func convertInteger(t abi.Type, raw string) (reflect.Value, error) {
	n, ok := parseInteger(raw)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%q is not an integer", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("%s out of range for uint%d", raw, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minV := new(big.Int).Neg(limit)
		if n.Cmp(minV) < 0 || n.Cmp(limit) >= 0 {
			return reflect.Value{}, fmt.Errorf("%s out of range for int%d", raw, t.Size)
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return reflect.ValueOf(n), nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType), nil
}

// convertList 列表参数以 JSON 数组给出，元素可以是字符串或裸值
func convertList(t abi.Type, raw string) (reflect.Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return reflect.Value{}, fmt.Errorf("%q is not a JSON array", raw)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.SliceTy {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	} else {
		out = reflect.New(t.GetType()).Elem()
	}
	for i, item := range items {
		text := string(item)
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			text = s
		}
		v, err := convertValue(*t.Elem, strings.TrimSpace(text))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// parseUint256 十进制或 0x 十六进制的非负整数
func parseUint256(raw string) (*big.Int, error) {
	n, ok := parseInteger(strings.TrimSpace(raw))
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, fmt.Errorf("%q is not a non-negative 256-bit integer", raw)
	}
	return n, nil
}

// parseInteger 十进制，或 0x 前缀的十六进制（可带负号）
func parseInteger(raw string) (*big.Int, bool) {
	neg := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return nil, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}
