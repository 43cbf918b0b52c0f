package embedded

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicStrength 助记词强度
type MnemonicStrength int

const (
	// Mnemonic12Words 12个助记词 (128 bits 熵)
	Mnemonic12Words MnemonicStrength = 128
	// Mnemonic24Words 24个助记词 (256 bits 熵)
	Mnemonic24Words MnemonicStrength = 256
)

// GenerateMnemonic 生成助记词
func GenerateMnemonic(strength MnemonicStrength) (string, error) {
	switch strength {
	case Mnemonic12Words, Mnemonic24Words:
	default:
		return "", fmt.Errorf("invalid mnemonic strength: %d, must be 128 or 256", strength)
	}

	entropy := make([]byte, int(strength)/8)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic 验证助记词并返回失败原因
func ValidateMnemonic(mnemonic string) error {
	mnemonic = normalizeSpaces(mnemonic)
	if mnemonic == "" {
		return errors.New("助记词不能为空")
	}

	switch n := len(strings.Split(mnemonic, " ")); n {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("助记词数量无效: %d，应为 12, 15, 18, 21 或 24", n)
	}

	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.New("校验和验证失败，请检查助记词是否正确")
	}
	return nil
}

// MnemonicToSeed 将助记词转换为种子（PBKDF2 with HMAC-SHA512）
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = normalizeSpaces(mnemonic)
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return bip39.NewSeed(mnemonic, passphrase), nil
}

// normalizeSpaces 规范化空格（将多个连续空格替换为单个空格）
func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
