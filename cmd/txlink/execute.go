package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/client/core/analytics"
	"github.com/weisyn/txlinker/client/core/execution"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// executeResult 执行结果
type executeResult struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber,omitempty"`
	From        string `json:"from"`
	ChainID     uint64 `json:"chainId"`
	Contract    string `json:"contractAddress"`
	Function    string `json:"functionName,omitempty"`
}

func (r executeResult) String() string { return r.Hash }

func (r executeResult) TableData() [][]string {
	rows := [][]string{
		{"Field", "Value"},
		{"hash", r.Hash},
		{"from", r.From},
		{"chainId", strconv.FormatUint(r.ChainID, 10)},
		{"contract", r.Contract},
	}
	if r.Function != "" {
		rows = append(rows, []string{"function", r.Function})
	}
	if r.BlockNumber != "" {
		rows = append(rows, []string{"block", r.BlockNumber})
	}
	return rows
}

func (c *cliContext) executeCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "execute <token|link>",
		Short: "用本地钱包执行交易链接",
		Long: `加载交易链接，连接钱包并提交交易。

提交前会显示交易摘要并要求确认，--yes 跳过确认。
执行过程中的页面事件写入分析后端。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runExecute(ctx, args[0], assumeYes)
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "跳过签名确认")
	return cmd
}

func (c *cliContext) runExecute(ctx context.Context, arg string, assumeYes bool) error {
	token, err := txlink.TokenFromLink(arg)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}

	capability, err := c.walletCapability(assumeYes)
	if err != nil {
		return err
	}

	rec, closeRecorder, err := c.recorder(ctx)
	if err != nil {
		return err
	}
	defer closeRecorder()

	m := execution.New(token, c.walletAdapter(capability),
		execution.WithResolver(c.provider.GetChains()),
		execution.WithSink(rec),
		execution.WithLogger(c.logger.With("module", "execution")),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- m.Run(runCtx) }()
	defer func() {
		cancel()
		<-runDone
	}()

	spinner := c.spinner("加载交易链接")
	snap, err := m.Wait(ctx, func(s execution.Snapshot) bool { return s.State != execution.StateLoading })
	spinner.stop()
	if err != nil {
		return err
	}
	if snap.State == execution.StateFailed {
		c.formatter.PrintInfo("该链接无法使用，请重新生成链接后再试")
		return fmt.Errorf("load transaction link (%s): %w", snap.FailReason, snap.Err)
	}
	c.formatter.PrintInfo(fmt.Sprintf("chain %d, contract %s", snap.Description.ChainID, snap.Description.ContractAddress))

	for {
		if err := m.Dispatch(ctx, execution.ActionConnectWallet); err != nil {
			return err
		}
		snap, err = m.Wait(ctx, func(s execution.Snapshot) bool { return !s.Connecting })
		if err != nil {
			return err
		}
		if snap.State == execution.StateReadyConnected && snap.Err == nil {
			break
		}
		if !c.retry(ctx, assumeYes, snap.Err) {
			return fmt.Errorf("connect wallet: %w", snap.Err)
		}
	}
	c.formatter.PrintInfo("wallet connected: " + snap.Address())

	for {
		if err := m.Dispatch(ctx, execution.ActionExecute); err != nil {
			return err
		}
		spinner = c.spinner("提交交易")
		snap, err = m.Wait(ctx, func(s execution.Snapshot) bool {
			return s.State == execution.StateSucceeded ||
				(s.State == execution.StateReadyConnected && s.Err != nil)
		})
		spinner.stop()
		if err != nil {
			return err
		}
		if snap.State == execution.StateSucceeded {
			break
		}
		if !c.retry(ctx, assumeYes, snap.Err) {
			return fmt.Errorf("submit transaction: %w", snap.Err)
		}
	}

	c.formatter.PrintSuccess("transaction submitted")
	return c.formatter.Print(executeResult{
		Hash:        snap.Receipt.Hash,
		BlockNumber: snap.Receipt.BlockNumber,
		From:        snap.Address(),
		ChainID:     snap.Description.ChainID,
		Contract:    snap.Description.ContractAddress,
		Function:    snap.Description.FunctionName,
	})
}

// retry 可恢复的失败后询问是否重试；--yes 时直接放弃
func (c *cliContext) retry(ctx context.Context, assumeYes bool, cause error) bool {
	if assumeYes {
		return false
	}
	c.formatter.PrintWarning(cause.Error())
	ok, err := c.confirm(ctx, "Retry?")
	return err == nil && ok
}

// recorder 按配置创建事件记录器；返回的关闭函数会尽量投递队列中剩余的事件
func (c *cliContext) recorder(ctx context.Context) (*analytics.Recorder, func(), error) {
	cfg := c.provider.GetAnalytics()
	opts := cfg.GetOptions()

	var (
		backend analytics.Backend
		store   storage.EventStore
	)
	if cfg.GetBackend() == "http" {
		backend = analytics.NewHTTPBackend(opts.CollectorURL, cfg.GetTimeout())
	} else {
		var err error
		store, err = c.newStore(ctx, cfg, c.logger)
		if err != nil {
			return nil, nil, err
		}
		backend = analytics.StoreBackend{Store: store}
	}

	rec := analytics.NewRecorder(backend, cfg.GetQueueSize(), cfg.GetTimeout(), c.logger.With("module", "analytics"))
	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rec.Close(closeCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warnf("关闭事件记录器失败: %v", err)
		}
		if store != nil {
			if err := store.Close(); err != nil {
				c.logger.Warnf("关闭事件存储失败: %v", err)
			}
		}
	}
	return rec, closeFn, nil
}

type spinnerHandle struct {
	s *pterm.SpinnerPrinter
}

func (h spinnerHandle) stop() {
	if h.s != nil {
		_ = h.s.Stop()
	}
}

// spinner 仅在输出到终端且非静默时显示
func (c *cliContext) spinner(text string) spinnerHandle {
	if c.flags.Silent || c.errOut != os.Stderr {
		return spinnerHandle{}
	}
	s, err := pterm.DefaultSpinner.WithWriter(c.errOut).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return spinnerHandle{}
	}
	return spinnerHandle{s: s}
}
