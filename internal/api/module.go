// Package api 汇集对外服务模块
package api

import (
	apihttp "github.com/weisyn/txlinker/internal/api/http"
	"go.uber.org/fx"
)

// Module 返回API模块（当前只有 HTTP 采集服务）
func Module() fx.Option {
	return fx.Module("api",
		apihttp.Module(),
	)
}
