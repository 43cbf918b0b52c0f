package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/internal/app"
	"github.com/weisyn/txlinker/pkg/types"
)

func (c *cliContext) collectorCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "运行分析事件采集服务",
		Long: `启动 HTTP 采集服务，接收页面与交易事件并提供看板统计。

路由:
  POST /api/analytics/event
  POST /api/analytics/pageload
  GET  /api/analytics/summary
  GET  /health
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.userConfig
			api := types.UserAPIConfig{}
			if cfg.API != nil {
				api = *cfg.API
			}
			if cmd.Flags().Changed("host") {
				api.Host = types.StringPtr(host)
			}
			if cmd.Flags().Changed("port") {
				api.Port = types.IntPtr(port)
			}
			cfg.API = &api

			a, err := app.Start(app.WithUserConfig(&cfg))
			if err != nil {
				return err
			}
			c.formatter.PrintSuccess("collector started")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Wait(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "监听地址 (覆盖配置)")
	cmd.Flags().IntVar(&port, "port", 0, "监听端口 (覆盖配置)")
	return cmd
}
