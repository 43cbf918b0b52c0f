package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/client/core/analytics"
)

// summaryView 看板统计的命令行视图
type summaryView struct {
	analytics.Summary
}

func (v summaryView) TableData() [][]string {
	rows := [][]string{
		{"Metric", "Value"},
		{"events", strconv.Itoa(v.TotalEvents)},
		{"transactions", strconv.Itoa(v.TotalTransactions)},
		{"successful", strconv.Itoa(v.Successful)},
		{"failed", strconv.Itoa(v.Failed)},
		{"pending", strconv.Itoa(v.Pending)},
		{"success rate", fmt.Sprintf("%.1f%%", v.SuccessRate)},
		{"page visits", strconv.Itoa(v.PageVisits)},
		{"page inits", strconv.Itoa(v.PageInits)},
		{"wallet connects", strconv.Itoa(v.WalletConnects)},
		{"active chains", strings.Join(v.ActiveChains, ",")},
	}
	for _, e := range v.RecentEvents {
		rows = append(rows, []string{"recent", e.Timestamp.Format("2006-01-02 15:04:05") + " " + e.Name})
	}
	return rows
}

func (c *cliContext) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "显示分析看板统计",
		Long: `汇总已记录的页面与交易事件。

backend 为 http 时从采集服务读取，其余后端直接读取本地存储。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := c.loadSummary(cmd.Context())
			if err != nil {
				return err
			}
			return c.formatter.Print(summaryView{Summary: summary})
		},
	}
}

func (c *cliContext) loadSummary(ctx context.Context) (analytics.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := c.provider.GetAnalytics()
	if cfg.GetBackend() == "http" {
		return analytics.NewHTTPBackend(cfg.GetOptions().CollectorURL, cfg.GetTimeout()).FetchSummary(ctx)
	}

	store, err := c.newStore(ctx, cfg, c.logger)
	if err != nil {
		return analytics.Summary{}, err
	}
	defer store.Close()

	events, err := store.List(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("list events: %w", err)
	}
	return analytics.Summarize(events), nil
}
