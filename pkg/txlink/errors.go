package txlink

import "fmt"

// 解码失败原因
const (
	ReasonEncoding     = "encoding"      // 不是合法的 URL 安全编码
	ReasonFormat       = "format"        // 不是结构良好的记录
	ReasonMissingField = "missing-field" // 缺少必填字段
	ReasonChainID      = "chain-id"      // chainId 不是正整数
	ReasonNonCanonical = "non-canonical" // 内容合法但不是规范编码（令牌被改动过）
)

// DecodeError 链接令牌无法还原为交易描述
type DecodeError struct {
	Reason string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode link token: " + e.Reason
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(reason string, err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: reason, Detail: fmt.Sprintf(format, args...), Err: err}
}

// EncodeError 描述本身不满足编码前提
type EncodeError struct {
	Field  string
	Detail string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode transaction description: %s: %s", e.Field, e.Detail)
}
