package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/client/core/wallet/embedded"
)

// 钱包密钥的环境变量，密钥不进入配置文件
const (
	envWalletMnemonic   = "TXLINK_WALLET_MNEMONIC"
	envWalletPassphrase = "TXLINK_WALLET_PASSPHRASE"
	envWalletPrivateKey = "TXLINK_WALLET_PRIVATE_KEY"
)

var errNoWalletSecret = errors.New("no wallet configured: set " + envWalletMnemonic + " or " + envWalletPrivateKey)

type confirmFunc = embedded.Confirmer

func osGetenv(key string) string { return os.Getenv(key) }

// ptermConfirm 终端交互确认，默认拒绝
func ptermConfirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return pterm.DefaultInteractiveConfirm.
		WithDefaultText(prompt).
		WithDefaultValue(false).
		Show()
}

func autoApprove(context.Context, string) (bool, error) { return true, nil }

// walletCapability 由环境变量中的密钥创建嵌入式钱包；同时设置两者时优先助记词
func (c *cliContext) walletCapability(assumeYes bool) (*embedded.Capability, error) {
	confirm := c.confirm
	if assumeYes {
		confirm = autoApprove
	}
	opts := []embedded.Option{
		embedded.WithConfirmer(confirm),
		embedded.WithLogger(c.logger.With("module", "wallet")),
	}
	if c.broadcaster != nil {
		opts = append(opts, embedded.WithBroadcaster(c.broadcaster))
	}

	if mnemonic := strings.TrimSpace(c.getenv(envWalletMnemonic)); mnemonic != "" {
		path := c.provider.GetWallet().GetOptions().DerivationPath
		w, err := embedded.FromMnemonic(mnemonic, c.getenv(envWalletPassphrase), path, opts...)
		if err != nil {
			return nil, fmt.Errorf("load wallet from mnemonic: %w", err)
		}
		return w, nil
	}
	if key := strings.TrimSpace(c.getenv(envWalletPrivateKey)); key != "" {
		w, err := embedded.FromPrivateKey(key, opts...)
		if err != nil {
			return nil, fmt.Errorf("load wallet from private key: %w", err)
		}
		return w, nil
	}
	return nil, errNoWalletSecret
}

// walletAdapter 按配置创建会话适配器
func (c *cliContext) walletAdapter(capability wallet.Capability) *wallet.Adapter {
	opts := c.provider.GetWallet().GetOptions()
	adapterOpts := []wallet.Option{
		wallet.WithTimeouts(wallet.Timeouts{
			Init:    opts.InitTimeout,
			Connect: opts.ConnectTimeout,
			Submit:  opts.SubmitTimeout,
		}),
		wallet.WithClientID(opts.ClientID),
		wallet.WithGasMultiplier(opts.GasMultiplier),
		wallet.WithLogger(c.logger.With("module", "wallet")),
	}
	if c.dialer != nil {
		adapterOpts = append(adapterOpts, wallet.WithDialer(c.dialer))
	}
	return wallet.NewAdapter(capability, adapterOpts...)
}
