package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/client/core/output"
	"github.com/weisyn/txlinker/client/core/wallet"
	"github.com/weisyn/txlinker/client/core/wallet/embedded"
	"github.com/weisyn/txlinker/internal/config"
	logconfig "github.com/weisyn/txlinker/internal/config/log"
	corelog "github.com/weisyn/txlinker/internal/core/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath   string // 配置文件
	OutputFormat string // 输出格式
	Silent       bool   // 只输出结果
	Verbose      bool   // 调试日志
}

// cliContext 一次命令执行共享的状态，在 PersistentPreRunE 中初始化
type cliContext struct {
	flags GlobalFlags

	out    io.Writer
	errOut io.Writer

	userConfig *types.UserConfig
	provider   *config.Provider
	formatter  *output.Formatter
	logger     log.Logger

	// 测试替换点
	confirm     confirmFunc
	getenv      func(string) string
	newStore    storeFactory
	dialer      wallet.Dialer
	broadcaster func(ctx context.Context, rpcURL string) (embedded.Broadcaster, error)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return newCLIContext(out, errOut).rootCmd()
}

func newCLIContext(out, errOut io.Writer) *cliContext {
	return &cliContext{
		out:      out,
		errOut:   errOut,
		confirm:  ptermConfirm,
		getenv:   osGetenv,
		newStore: defaultStoreFactory,
	}
}

func (c *cliContext) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "txlink",
		Short: "可分享交易链接工具",
		Long: `txlink - 把一次合约调用编码为可分享的链接，并在本地钱包中执行

链接格式: <origin>/transaction/<token>
令牌为交易描述的规范 JSON 经 base64url 编码，不含任何密钥。

钱包密钥从环境变量读取:
  TXLINK_WALLET_MNEMONIC      助记词
  TXLINK_WALLET_PRIVATE_KEY   十六进制私钥`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.init() },
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.ConfigPath, "config", "c", "", "配置文件路径 (默认读取 $TXLINK_CONFIG)")
	pf.StringVarP(&c.flags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|table|text")
	pf.BoolVar(&c.flags.Silent, "silent", false, "静默模式 (仅输出结果)")
	pf.BoolVarP(&c.flags.Verbose, "verbose", "v", false, "详细输出")

	root.AddCommand(
		c.encodeCmd(),
		c.decodeCmd(),
		c.executeCmd(),
		c.chainsCmd(),
		c.statsCmd(),
		c.collectorCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cliContext) init() error {
	format, err := output.ParseFormat(c.flags.OutputFormat)
	if err != nil {
		return err
	}
	c.formatter = output.NewFormatter(format, c.out)
	c.formatter.SetLogWriter(c.errOut)
	c.formatter.SetSilent(c.flags.Silent)

	cfg, err := config.Load(config.ResolvePath(c.flags.ConfigPath))
	if err != nil {
		return err
	}
	c.userConfig = cfg
	c.provider = config.NewProvider(cfg)

	c.logger, err = corelog.New(c.logConfig())
	if err != nil {
		return err
	}
	return nil
}

// logConfig 命令行默认只输出警告；--verbose 打开调试日志
func (c *cliContext) logConfig() *logconfig.Config {
	opts := *c.provider.GetLog().GetOptions()
	switch {
	case c.flags.Verbose:
		opts.Level = "debug"
		opts.ToConsole = true
	case c.userConfig.Log == nil || c.userConfig.Log.Level == nil:
		opts.Level = "warn"
	}
	return logconfig.NewFromOptions(&opts)
}
