package txlink

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 令牌使用 base64url 无填充编码；Strict 拒绝末尾多余比特，避免同一内容存在多个令牌
var tokenEncoding = base64.RawURLEncoding.Strict()

// 允许出现在记录中的字段（区分大小写）
var knownFields = map[string]bool{
	"contractAddress": true,
	"chainId":         true,
	"functionName":    true,
	"functionInputs":  true,
	"abi":             true,
	"rpcUrl":          true,
}

// Encode 将交易描述编码为链接令牌
// 相同的描述总是得到相同的令牌
func Encode(d Description) (Token, error) {
	text, err := canonicalJSON(d)
	if err != nil {
		return "", err
	}
	return Token(tokenEncoding.EncodeToString(text)), nil
}

// canonicalJSON 生成规范文本：结构体字段顺序固定，映射键由 encoding/json 排序，不做 HTML 转义
func canonicalJSON(d Description) ([]byte, error) {
	if err := checkEncodable(d); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, &EncodeError{Field: "description", Detail: err.Error()}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// checkEncodable 只有能无损往返的描述才允许编码
func checkEncodable(d Description) error {
	if d.ContractAddress == "" {
		return &EncodeError{Field: "contractAddress", Detail: "required"}
	}
	if d.ChainID == 0 {
		return &EncodeError{Field: "chainId", Detail: "must be a positive integer"}
	}
	strs := map[string]string{
		"contractAddress": d.ContractAddress,
		"functionName":    d.FunctionName,
		"abi":             d.ABI,
		"rpcUrl":          d.RPCURL,
	}
	for field, s := range strs {
		if !utf8.ValidString(s) {
			return &EncodeError{Field: field, Detail: "invalid UTF-8"}
		}
	}
	for k, v := range d.FunctionInputs {
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			return &EncodeError{Field: "functionInputs", Detail: "invalid UTF-8"}
		}
	}
	return nil
}

// Decode 将链接令牌还原为交易描述
// 所有失败都以 *DecodeError 返回
func Decode(t Token) (Description, error) {
	raw := strings.TrimSpace(string(t))
	if raw == "" {
		return Description{}, decodeErr(ReasonEncoding, nil, "empty token")
	}

	if isLegacyToken(raw) {
		return decodeLegacy(raw)
	}

	text, err := tokenEncoding.DecodeString(raw)
	if err != nil {
		return Description{}, decodeErr(ReasonEncoding, err, "invalid base64url")
	}

	d, err := parseRecord(text)
	if err != nil {
		return Description{}, err
	}

	// 重新编码必须得到同一个令牌，否则令牌被改动过
	canonical, err := canonicalJSON(d)
	if err != nil || !bytes.Equal(canonical, text) {
		return Description{}, decodeErr(ReasonNonCanonical, nil, "token does not match its canonical encoding")
	}
	return d, nil
}

// isLegacyToken 早期网页版生成的令牌为 encodeURIComponent(btoa(json))，含标准 base64 字符或百分号转义
func isLegacyToken(raw string) bool {
	return strings.ContainsAny(raw, "%+/=")
}

func decodeLegacy(raw string) (Description, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return Description{}, decodeErr(ReasonEncoding, err, "invalid percent-encoding")
	}
	text, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return Description{}, decodeErr(ReasonEncoding, err, "invalid base64")
	}
	return parseRecord(text)
}

// parseRecord 解析并校验结构化记录
func parseRecord(text []byte) (Description, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(text))
	if err := dec.Decode(&fields); err != nil {
		return Description{}, decodeErr(ReasonFormat, err, "not a JSON object")
	}
	if fields == nil {
		return Description{}, decodeErr(ReasonFormat, nil, "not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Description{}, decodeErr(ReasonFormat, nil, "trailing data after record")
	}

	for name := range fields {
		if !knownFields[name] {
			return Description{}, decodeErr(ReasonFormat, nil, "unknown field %q", name)
		}
	}

	var d Description

	rawAddr, ok := fields["contractAddress"]
	if !ok || isNull(rawAddr) {
		return Description{}, decodeErr(ReasonMissingField, nil, "contractAddress")
	}
	if err := json.Unmarshal(rawAddr, &d.ContractAddress); err != nil {
		return Description{}, decodeErr(ReasonFormat, err, "contractAddress")
	}
	if d.ContractAddress == "" {
		return Description{}, decodeErr(ReasonMissingField, nil, "contractAddress")
	}

	rawChain, ok := fields["chainId"]
	if !ok || isNull(rawChain) {
		return Description{}, decodeErr(ReasonMissingField, nil, "chainId")
	}
	chainID, err := parseChainID(rawChain)
	if err != nil {
		return Description{}, err
	}
	d.ChainID = chainID

	optional := []struct {
		name string
		dst  *string
	}{
		{"functionName", &d.FunctionName},
		{"abi", &d.ABI},
		{"rpcUrl", &d.RPCURL},
	}
	for _, f := range optional {
		raw, ok := fields[f.name]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return Description{}, decodeErr(ReasonFormat, err, "%s", f.name)
		}
	}

	if raw, ok := fields["functionInputs"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &d.FunctionInputs); err != nil {
			return Description{}, decodeErr(ReasonFormat, err, "functionInputs must map names to strings")
		}
	}

	return d, nil
}

// parseChainID chainId 必须是 JSON 整数且大于 0
func parseChainID(raw json.RawMessage) (uint64, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || s[0] == '"' {
		return 0, decodeErr(ReasonChainID, nil, "chainId must be a number")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, decodeErr(ReasonChainID, err, "chainId %s is not a positive integer", s)
	}
	if id == 0 {
		return 0, decodeErr(ReasonChainID, nil, "chainId must be positive")
	}
	return id, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
