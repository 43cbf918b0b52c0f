package txlink

import (
	"errors"
	"net/url"
	"strings"
)

// LinkPathPrefix 分享链接中令牌前的路径段
const LinkPathPrefix = "/transaction/"

// ShareLink 生成 <origin>/transaction/<token> 形式的分享链接
func ShareLink(origin string, d Description) (string, error) {
	token, err := Encode(d)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(origin, "/") + LinkPathPrefix + string(token), nil
}

// TokenFromLink 从完整链接或裸令牌中取出令牌
// 百分号转义保持原样，由 Decode 处理旧格式令牌
func TokenFromLink(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty link")
	}

	if !strings.Contains(s, LinkPathPrefix) {
		return Token(s), nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	path := u.EscapedPath()
	idx := strings.LastIndex(path, LinkPathPrefix)
	if idx < 0 {
		return "", errors.New("link has no transaction path")
	}
	token := strings.Trim(path[idx+len(LinkPathPrefix):], "/")
	if token == "" || strings.Contains(token, "/") {
		return "", errors.New("link has no transaction token")
	}
	return Token(token), nil
}
