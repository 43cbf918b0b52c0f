package embedded

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveKey 由助记词和派生路径得到私钥
func DeriveKey(mnemonic, passphrase, path string) (*ecdsa.PrivateKey, error) {
	seed, err := MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("mnemonic to seed: %w", err)
	}

	dp, err := ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}

	// chaincfg 参数只用于扩展密钥的序列化前缀，不影响派生结果
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	for _, index := range dp.ToUint32Array() {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive key: %w", err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("get private key: %w", err)
	}
	return priv.ToECDSA(), nil
}

// ParsePrivateKey 解析十六进制私钥（可带 0x 前缀）
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
